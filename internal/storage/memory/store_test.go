package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s := New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	// Every call advances the clock so created records have distinct times.
	s.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return s, context.Background()
}

func createUser(t *testing.T, s *Store, ctx context.Context, phone, username string) *models.User {
	t.Helper()
	u := &models.User{
		Phone:       phone,
		FirstName:   "Test",
		LastName:    "User",
		Username:    username,
		AccountType: models.AccountEnthusiast,
	}
	require.NoError(t, s.CreateUser(ctx, u))
	return u
}

func createPost(t *testing.T, s *Store, ctx context.Context, authorID, content string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: authorID, Content: content}
	require.NoError(t, s.CreatePost(ctx, p))
	return p
}

func TestCreateUserConflicts(t *testing.T) {
	s, ctx := newTestStore(t)
	createUser(t, s, ctx, "+15550001", "alice")

	dupPhone := &models.User{Phone: "+15550001", Username: "other", AccountType: models.AccountFarmer}
	err := s.CreateUser(ctx, dupPhone)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	dupName := &models.User{Phone: "+15550002", Username: "alice", AccountType: models.AccountFarmer}
	err = s.CreateUser(ctx, dupName)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestUpsertUserConcurrentSamePhone(t *testing.T) {
	s, ctx := newTestStore(t)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	ids := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := s.UpsertUser(ctx, &models.User{
				Phone:       "+15550001",
				FirstName:   "Test",
				LastName:    "User",
				Username:    "alice",
				AccountType: models.AccountEnthusiast,
			})
			if err != nil {
				errs <- err
				return
			}
			ids <- u.ID
		}()
	}
	wg.Wait()
	close(errs)
	close(ids)

	for err := range errs {
		require.NoError(t, err, "concurrent upserts of one phone must not conflict")
	}

	u, err := s.GetUserByPhone(ctx, "+15550001")
	require.NoError(t, err)
	for id := range ids {
		assert.Equal(t, u.ID, id, "every upsert must land on the same record")
	}
}

func TestGetUserNotFound(t *testing.T) {
	s, ctx := newTestStore(t)
	_, err := s.GetUser(ctx, "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestFollowIdempotent(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	bob := createUser(t, s, ctx, "+15550002", "bob")

	changed, err := s.CreateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.CreateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed, "second follow must not create another edge")

	followers, err := s.GetFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	changed, err = s.DeleteFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.DeleteFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, changed, "deleting a missing edge must report no change")
}

func TestLikeAndShareIdempotent(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	post := createPost(t, s, ctx, alice.ID, "soil test")

	changed, err := s.CreateLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.CreateLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	liked, err := s.HasLiked(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	changed, err = s.CreateShare(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = s.CreateShare(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestAdjustPostCounterFloorsAtZero(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	post := createPost(t, s, ctx, alice.ID, "counter test")

	require.NoError(t, s.AdjustPostCounter(ctx, post.ID, storage.CounterLikes, -1))
	got, err := s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LikesCount, "counter must never go negative")

	require.NoError(t, s.AdjustPostCounter(ctx, post.ID, storage.CounterLikes, 2))
	require.NoError(t, s.AdjustPostCounter(ctx, post.ID, storage.CounterLikes, -1))
	got, err = s.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
}

func TestRecomputeUserCounters(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	bob := createUser(t, s, ctx, "+15550002", "bob")
	carol := createUser(t, s, ctx, "+15550003", "carol")

	createPost(t, s, ctx, alice.ID, "one")
	createPost(t, s, ctx, alice.ID, "two")
	_, err := s.CreateFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = s.CreateFollow(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = s.CreateFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, s.RecomputeUserCounters(ctx, alice.ID))
	got, err := s.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.FollowersCount)
	assert.Equal(t, 1, got.FollowingCount)
	assert.Equal(t, 2, got.PostsCount)
}

func TestGetPostsByAuthorsOrderAndLimit(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	bob := createUser(t, s, ctx, "+15550002", "bob")

	p1 := createPost(t, s, ctx, alice.ID, "first")
	p2 := createPost(t, s, ctx, bob.ID, "second")
	p3 := createPost(t, s, ctx, alice.ID, "third")

	posts, err := s.GetPostsByAuthors(ctx, []string{alice.ID, bob.ID}, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, p3.ID, posts[0].ID)
	assert.Equal(t, p2.ID, posts[1].ID)
	assert.Equal(t, p1.ID, posts[2].ID)

	posts, err = s.GetPostsByAuthors(ctx, []string{alice.ID, bob.ID}, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p3.ID, posts[0].ID)
}

func TestGetRepliesOldestFirst(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	parent := createPost(t, s, ctx, alice.ID, "parent")

	r1 := &models.Post{AuthorID: alice.ID, Content: "reply one", ReplyToID: &parent.ID}
	require.NoError(t, s.CreatePost(ctx, r1))
	r2 := &models.Post{AuthorID: alice.ID, Content: "reply two", ReplyToID: &parent.ID}
	require.NoError(t, s.CreatePost(ctx, r2))

	replies, err := s.GetReplies(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, r1.ID, replies[0].ID)
	assert.Equal(t, r2.ID, replies[1].ID)
}

func TestDeletePostCascadesButKeepsReplies(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	bob := createUser(t, s, ctx, "+15550002", "bob")
	post := createPost(t, s, ctx, alice.ID, "to be deleted")

	reply := &models.Post{AuthorID: bob.ID, Content: "a reply", ReplyToID: &post.ID}
	require.NoError(t, s.CreatePost(ctx, reply))

	_, err := s.CreateLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	require.NoError(t, s.CreateNotification(ctx, &models.Notification{
		UserID:     alice.ID,
		FromUserID: bob.ID,
		Type:       models.NotificationLike,
		PostID:     &post.ID,
		Message:    "bob liked your post",
	}))

	require.NoError(t, s.DeletePost(ctx, post.ID))

	_, err = s.GetPost(ctx, post.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	liked, err := s.HasLiked(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked, "likes must be removed with the post")

	notifications, err := s.GetNotifications(ctx, alice.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, notifications, "notifications referencing the post must be removed")

	// The reply survives as an orphan.
	got, err := s.GetPost(ctx, reply.ID)
	require.NoError(t, err)
	assert.Equal(t, "a reply", got.Content)
}

func TestNotificationsNewestFirstAndReadFlags(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := createUser(t, s, ctx, "+15550001", "alice")
	bob := createUser(t, s, ctx, "+15550002", "bob")

	n1 := &models.Notification{UserID: alice.ID, FromUserID: bob.ID, Type: models.NotificationFollow, Message: "first"}
	require.NoError(t, s.CreateNotification(ctx, n1))
	n2 := &models.Notification{UserID: alice.ID, FromUserID: bob.ID, Type: models.NotificationFollow, Message: "second"}
	require.NoError(t, s.CreateNotification(ctx, n2))

	got, err := s.GetNotifications(ctx, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Message)

	count, err := s.GetUnreadNotificationCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, s.MarkNotificationRead(ctx, n1.ID))
	count, err = s.GetUnreadNotificationCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, s.MarkAllNotificationsRead(ctx, alice.ID))
	count, err = s.GetUnreadNotificationCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestOTPLifecycle(t *testing.T) {
	s, ctx := newTestStore(t)

	expired := &models.OTP{Phone: "+15550001", CodeHash: "old", ExpiresAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveOTP(ctx, expired))

	active := &models.OTP{Phone: "+15550001", CodeHash: "new", ExpiresAt: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveOTP(ctx, active))

	got, err := s.GetActiveOTP(ctx, "+15550001")
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID, "expired codes must be ignored")

	require.NoError(t, s.MarkOTPUsed(ctx, active.ID))
	_, err = s.GetActiveOTP(ctx, "+15550001")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound), "used codes must not be returned")
}

func TestSearchUsers(t *testing.T) {
	s, ctx := newTestStore(t)
	createUser(t, s, ctx, "+15550001", "plantalice")
	createUser(t, s, ctx, "+15550002", "bob")

	got, err := s.SearchUsers(ctx, "plant", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "plantalice", got[0].Username)
}
