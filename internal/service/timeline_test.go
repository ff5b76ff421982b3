package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/service"
)

func TestTimelineMembership(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)
	carol := f.user(t, "+15550003", "carol", models.AccountStudent)

	require.NoError(t, f.svc.Follow(f.ctx, alice.ID, bob.ID))

	bobPost := f.post(t, bob.ID, "from bob")
	f.post(t, carol.ID, "from carol")
	ownPost := f.post(t, alice.ID, "from alice")

	timeline, err := f.svc.Timeline(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2, "timeline must hold followed users' posts plus own")

	// Newest first.
	assert.Equal(t, ownPost.ID, timeline[0].ID)
	assert.Equal(t, bobPost.ID, timeline[1].ID)

	for _, p := range timeline {
		assert.NotEqual(t, carol.ID, p.AuthorID, "posts by unfollowed users must not appear")
	}
}

func TestTimelineEnrichment(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)

	require.NoError(t, f.svc.Follow(f.ctx, alice.ID, bob.ID))
	post := f.post(t, bob.ID, "from bob")
	require.NoError(t, f.svc.Like(f.ctx, alice.ID, post.ID))

	timeline, err := f.svc.Timeline(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)
	assert.Equal(t, "bob", timeline[0].Author.Username)
	assert.True(t, timeline[0].IsLiked)
	assert.False(t, timeline[0].IsShared)

	require.NoError(t, f.svc.Unlike(f.ctx, alice.ID, post.ID))
	timeline, err = f.svc.Timeline(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, timeline[0].IsLiked)
}

func TestTimelinePageSize(t *testing.T) {
	f := newFixture(t, service.Options{TimelinePageSize: 3}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)

	for i := 0; i < 5; i++ {
		f.post(t, alice.ID, "post body")
	}

	timeline, err := f.svc.Timeline(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 3)
}

func TestTimelineUnfollowRemovesPosts(t *testing.T) {
	f := newFixture(t, service.Options{}, false)
	alice := f.user(t, "+15550001", "alice", models.AccountEnthusiast)
	bob := f.user(t, "+15550002", "bob", models.AccountFarmer)

	require.NoError(t, f.svc.Follow(f.ctx, alice.ID, bob.ID))
	f.post(t, bob.ID, "from bob")

	timeline, err := f.svc.Timeline(f.ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 1)

	require.NoError(t, f.svc.Unfollow(f.ctx, alice.ID, bob.ID))
	timeline, err = f.svc.Timeline(f.ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestTimelineRequiresIdentity(t *testing.T) {
	f := newFixture(t, service.Options{}, false)

	_, err := f.svc.Timeline(f.ctx, "")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
}
