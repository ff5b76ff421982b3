package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/push"
	"github.com/plantlife/plantlife-backend/internal/service"
)

func TestCreatePostLengthBounds(t *testing.T) {
	f := newFixture(t, service.Options{MaxPostLength: 20}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)

	_, err := f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{Content: ""})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "empty body must be rejected")

	_, err = f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{Content: "   "})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "whitespace-only body must be rejected")

	atBound := strings.Repeat("a", 20)
	p, err := f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{Content: atBound})
	require.NoError(t, err, "body exactly at the bound must succeed")
	assert.Equal(t, atBound, p.Content)

	overBound := strings.Repeat("a", 21)
	_, err = f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{Content: overBound})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), "body one over the bound must be rejected")
}

func TestCreatePostUpdatesAuthorCounter(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)

	f.post(t, alice.ID, "first post")
	f.post(t, alice.ID, "second post")

	got, err := f.svc.GetUserByID(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.PostsCount)
	assert.Equal(t, 2, f.push.count(push.EventPostCreated))
}

func TestReplyLifecycle(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)

	parent := f.post(t, alice.ID, "parent post")

	reply, err := f.svc.CreatePost(f.ctx, bob.ID, models.CreatePostRequest{
		Content:   "a reply from bob",
		ReplyToID: parent.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ReplyToID)
	assert.Equal(t, parent.ID, *reply.ReplyToID)

	got, err := f.svc.GetPost(f.ctx, "", parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RepliesCount)

	// The reply author's notification reaches the parent author.
	notifications, err := f.svc.GetNotifications(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationReply, notifications[0].Type)
	assert.Equal(t, "bob", notifications[0].FromUser.Username)

	// Deleting the reply drops the parent's counter back.
	require.NoError(t, f.svc.DeletePost(f.ctx, bob.ID, reply.ID))
	got, err = f.svc.GetPost(f.ctx, "", parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.RepliesCount)
}

func TestReplyToMissingPost(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)

	_, err := f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{
		Content:   "reply to nothing",
		ReplyToID: "missing",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSelfReplyEmitsNoNotification(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	parent := f.post(t, alice.ID, "talking to myself")

	_, err := f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{
		Content:   "replying to myself",
		ReplyToID: parent.ID,
	})
	require.NoError(t, err)

	notifications, err := f.svc.GetNotifications(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestDeletePostOnlyByAuthor(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)
	post := f.post(t, alice.ID, "alice's post")

	err := f.svc.DeletePost(f.ctx, bob.ID, post.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	require.NoError(t, f.svc.DeletePost(f.ctx, alice.ID, post.ID))
	_, err = f.svc.GetPost(f.ctx, "", post.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestDeleteParentOrphansReplies(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)
	parent := f.post(t, alice.ID, "parent post")

	reply, err := f.svc.CreatePost(f.ctx, bob.ID, models.CreatePostRequest{
		Content:   "bob's contribution",
		ReplyToID: parent.ID,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePost(f.ctx, alice.ID, parent.ID))

	// Bob's reply survives and stays readable.
	got, err := f.svc.GetPost(f.ctx, "", reply.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob's contribution", got.Content)
}

func TestGetRepliesOrdering(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)
	parent := f.post(t, alice.ID, "parent post")

	first, err := f.svc.CreatePost(f.ctx, bob.ID, models.CreatePostRequest{Content: "first reply", ReplyToID: parent.ID})
	require.NoError(t, err)
	second, err := f.svc.CreatePost(f.ctx, alice.ID, models.CreatePostRequest{Content: "second reply", ReplyToID: parent.ID})
	require.NoError(t, err)

	replies, err := f.svc.GetReplies(f.ctx, "", parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, first.ID, replies[0].ID)
	assert.Equal(t, second.ID, replies[1].ID)
	assert.Equal(t, "bob", replies[0].Author.Username)
}
