package service_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/moderation"
	"github.com/plantlife/plantlife-backend/internal/service"
	"github.com/plantlife/plantlife-backend/internal/storage/memory"
)

// recordingBroadcaster captures pushed events for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBroadcaster) Broadcast(eventType string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
}

func (b *recordingBroadcaster) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	svc   *service.Service
	store *memory.Store
	push  *recordingBroadcaster
	ctx   context.Context
}

func newFixture(t *testing.T, opts service.Options, moderated bool) *fixture {
	t.Helper()

	store := memory.New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})

	var moderator *moderation.Classifier
	if moderated {
		moderator = moderation.NewClassifier()
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)

	push := &recordingBroadcaster{}
	return &fixture{
		svc:   service.New(store, moderator, push, log, opts),
		store: store,
		push:  push,
		ctx:   context.Background(),
	}
}

func (f *fixture) user(t *testing.T, phone, username string, accountType models.AccountType) *models.User {
	t.Helper()
	u, err := f.svc.RegisterUser(f.ctx, &models.User{
		Phone:       phone,
		FirstName:   "Test",
		LastName:    "User",
		Username:    username,
		AccountType: accountType,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, authorID, content string) *models.Post {
	t.Helper()
	p, err := f.svc.CreatePost(f.ctx, authorID, models.CreatePostRequest{Content: content})
	require.NoError(t, err)
	return p
}
