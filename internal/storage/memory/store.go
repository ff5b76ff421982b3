package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

// Store implements storage.Storage in memory. It is the default backend for
// development and the one the contract tests run against.
type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	posts         map[string]*models.Post
	follows       map[string]*models.Follow
	likes         map[string]*models.Like
	shares        map[string]*models.Share
	notifications map[string]*models.Notification
	verifications map[string]*models.VerificationRequest
	otps          map[string]*models.OTP
	clock         func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		posts:         make(map[string]*models.Post),
		follows:       make(map[string]*models.Follow),
		likes:         make(map[string]*models.Like),
		shares:        make(map[string]*models.Share),
		notifications: make(map[string]*models.Notification),
		verifications: make(map[string]*models.VerificationRequest),
		otps:          make(map[string]*models.OTP),
		clock:         time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Store) SetClock(clock func() time.Time) { s.clock = clock }

func (s *Store) now() time.Time { return s.clock().UTC() }

// === Users ===

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createUserLocked(user)
}

func (s *Store) createUserLocked(user *models.User) error {
	for _, u := range s.users {
		if u.Phone == user.Phone {
			return apperrors.Conflict("phone %s is already registered", user.Phone)
		}
		if u.Username == user.Username {
			return apperrors.Conflict("username %s is already taken", user.Username)
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.findUserByPhoneLocked(user.Phone)
	if existing == nil {
		if err := s.createUserLocked(user); err != nil {
			return nil, err
		}
		cp := *user
		return &cp, nil
	}

	updated := *existing
	updated.FirstName = user.FirstName
	updated.LastName = user.LastName
	if user.Username != "" {
		updated.Username = user.Username
	}
	if user.Email != "" {
		updated.Email = user.Email
	}
	if user.AccountType != "" {
		updated.AccountType = user.AccountType
	}
	updated.UpdatedAt = s.now()
	s.users[updated.ID] = &updated
	cp := updated
	return &cp, nil
}

func (s *Store) findUserByPhoneLocked(phone string) *models.User {
	for _, u := range s.users {
		if u.Phone == phone {
			return u
		}
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user %s not found", username)
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.findUserByPhoneLocked(phone); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.NotFound("no user with phone %s", phone)
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return apperrors.NotFound("user %s not found", user.ID)
	}
	user.UpdatedAt = s.now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []models.User
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) RecomputeUserCounters(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user %s not found", userID)
	}

	followers, following, posts := 0, 0, 0
	for _, f := range s.follows {
		if f.FollowingID == userID {
			followers++
		}
		if f.FollowerID == userID {
			following++
		}
	}
	for _, p := range s.posts {
		if p.AuthorID == userID {
			posts++
		}
	}

	updated := *u
	updated.FollowersCount = followers
	updated.FollowingCount = following
	updated.PostsCount = posts
	updated.UpdatedAt = s.now()
	s.users[userID] = &updated
	return nil
}

// === Posts ===

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = s.now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperrors.NotFound("post %s not found", id)
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	sortPostsNewestFirst(out)
	return out, nil
}

func (s *Store) GetPostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	var out []models.Post
	for _, p := range s.posts {
		if authors[p.AuthorID] {
			out = append(out, *p)
		}
	}
	sortPostsNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetReplies(ctx context.Context, postID string) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Post
	for _, p := range s.posts {
		if p.ReplyToID != nil && *p.ReplyToID == postID {
			out = append(out, *p)
		}
	}
	// Thread order: oldest first.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperrors.NotFound("post %s not found", id)
	}
	delete(s.posts, id)

	for lid, l := range s.likes {
		if l.PostID == id {
			delete(s.likes, lid)
		}
	}
	for sid, sh := range s.shares {
		if sh.PostID == id {
			delete(s.shares, sid)
		}
	}
	for nid, n := range s.notifications {
		if n.PostID != nil && *n.PostID == id {
			delete(s.notifications, nid)
		}
	}
	return nil
}

func (s *Store) AdjustPostCounter(ctx context.Context, postID string, counter storage.PostCounter, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return apperrors.NotFound("post %s not found", postID)
	}

	updated := *p
	switch counter {
	case storage.CounterLikes:
		updated.LikesCount = clampZero(updated.LikesCount + delta)
	case storage.CounterShares:
		updated.SharesCount = clampZero(updated.SharesCount + delta)
	case storage.CounterReplies:
		updated.RepliesCount = clampZero(updated.RepliesCount + delta)
	}
	updated.UpdatedAt = s.now()
	s.posts[postID] = &updated
	return nil
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func sortPostsNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
}

// === Follows ===

func (s *Store) CreateFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return false, nil
		}
	}
	f := &models.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.now(),
	}
	s.follows[f.ID] = f
	return true, nil
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(s.follows, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for _, f := range s.follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids, nil
}

func (s *Store) GetFollowers(ctx context.Context, userID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, f := range s.follows {
		if f.FollowingID == userID {
			if u, ok := s.users[f.FollowerID]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (s *Store) GetFollowing(ctx context.Context, userID string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, f := range s.follows {
		if f.FollowerID == userID {
			if u, ok := s.users[f.FollowingID]; ok {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

// === Likes and shares ===

func (s *Store) CreateLike(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			return false, nil
		}
	}
	l := &models.Like{ID: uuid.NewString(), UserID: userID, PostID: postID, CreatedAt: s.now()}
	s.likes[l.ID] = l
	return true, nil
}

func (s *Store) DeleteLike(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			delete(s.likes, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateShare(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sh := range s.shares {
		if sh.UserID == userID && sh.PostID == postID {
			return false, nil
		}
	}
	sh := &models.Share{ID: uuid.NewString(), UserID: userID, PostID: postID, CreatedAt: s.now()}
	s.shares[sh.ID] = sh
	return true, nil
}

func (s *Store) DeleteShare(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sh := range s.shares {
		if sh.UserID == userID && sh.PostID == postID {
			delete(s.shares, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) HasShared(ctx context.Context, userID, postID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sh := range s.shares {
		if sh.UserID == userID && sh.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	out := make(map[string]bool)
	for _, l := range s.likes {
		if l.UserID == userID && wanted[l.PostID] {
			out[l.PostID] = true
		}
	}
	return out, nil
}

func (s *Store) GetSharedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}
	out := make(map[string]bool)
	for _, sh := range s.shares {
		if sh.UserID == userID && wanted[sh.PostID] {
			out[sh.PostID] = true
		}
	}
	return out, nil
}

// === Notifications ===

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = uuid.NewString()
	n.CreatedAt = s.now()
	cp := *n
	s.notifications[n.ID] = &cp
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id string) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, apperrors.NotFound("notification %s not found", id)
	}
	cp := *n
	return &cp, nil
}

func (s *Store) GetNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) GetUnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok {
		return apperrors.NotFound("notification %s not found", id)
	}
	updated := *n
	updated.IsRead = true
	s.notifications[id] = &updated
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			updated := *n
			updated.IsRead = true
			s.notifications[id] = &updated
		}
	}
	return nil
}

// === Verification requests ===

func (s *Store) CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = uuid.NewString()
	req.Status = models.VerificationPending
	req.SubmittedAt = s.now()
	cp := *req
	s.verifications[req.ID] = &cp
	return nil
}

func (s *Store) GetVerificationRequests(ctx context.Context, userID string) ([]models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.VerificationRequest
	for _, r := range s.verifications {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (s *Store) GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.VerificationRequest
	for _, r := range s.verifications {
		if r.Status == models.VerificationPending {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (s *Store) GetVerificationRequest(ctx context.Context, id string) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.verifications[id]
	if !ok {
		return nil, apperrors.NotFound("verification request %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (s *Store) UpdateVerificationRequest(ctx context.Context, id string, status models.VerificationStatus, adminNotes, reviewedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.verifications[id]
	if !ok {
		return apperrors.NotFound("verification request %s not found", id)
	}
	updated := *r
	updated.Status = status
	updated.AdminNotes = adminNotes
	updated.ReviewedBy = reviewedBy
	now := s.now()
	updated.ReviewedAt = &now
	s.verifications[id] = &updated
	return nil
}

// === One-time codes ===

func (s *Store) SaveOTP(ctx context.Context, otp *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	otp.ID = uuid.NewString()
	otp.CreatedAt = s.now()
	cp := *otp
	s.otps[otp.ID] = &cp
	return nil
}

func (s *Store) GetActiveOTP(ctx context.Context, phone string) (*models.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *models.OTP
	now := s.now()
	for _, o := range s.otps {
		if o.Phone != phone || o.IsUsed || o.ExpiresAt.Before(now) {
			continue
		}
		if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
			newest = o
		}
	}
	if newest == nil {
		return nil, apperrors.NotFound("no active code for %s", phone)
	}
	cp := *newest
	return &cp, nil
}

func (s *Store) MarkOTPUsed(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.otps[id]
	if !ok {
		return apperrors.NotFound("code %s not found", id)
	}
	updated := *o
	updated.IsUsed = true
	s.otps[id] = &updated
	return nil
}
