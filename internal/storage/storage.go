package storage

import (
	"context"

	"github.com/plantlife/plantlife-backend/internal/models"
)

// PostCounter names a derived counter on a post.
type PostCounter string

const (
	CounterLikes   PostCounter = "likes_count"
	CounterShares  PostCounter = "shares_count"
	CounterReplies PostCounter = "replies_count"
)

// Storage is the persistence contract. Three interchangeable backends
// implement it (postgres, mongodb, memory); the service layer must behave
// identically regardless of which one is plugged in.
//
// Creation methods assign the record's ID and CreatedAt. Methods that report
// a changed bool are idempotent: creating an existing edge or deleting a
// missing one succeeds with changed=false. Lookup methods return an
// apperrors.NotFound error when the record does not exist.
type Storage interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)
	// RecomputeUserCounters re-derives followers/following/posts counts from
	// the follow and post rows and writes them back.
	RecomputeUserCounters(ctx context.Context, userID string) error

	// Posts
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	// GetPostsByAuthors returns posts by any of the given authors, newest
	// first, truncated to limit.
	GetPostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.Post, error)
	// GetReplies returns direct children only, oldest first.
	GetReplies(ctx context.Context, postID string) ([]models.Post, error)
	// DeletePost removes the post plus the engagement rows and notifications
	// referencing it. Replies are left in place.
	DeletePost(ctx context.Context, id string) error
	// AdjustPostCounter adds delta to one counter, floored at zero.
	AdjustPostCounter(ctx context.Context, postID string, counter PostCounter, delta int) error

	// Follows
	CreateFollow(ctx context.Context, followerID, followingID string) (changed bool, err error)
	DeleteFollow(ctx context.Context, followerID, followingID string) (changed bool, err error)
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)
	GetFollowers(ctx context.Context, userID string) ([]models.User, error)
	GetFollowing(ctx context.Context, userID string) ([]models.User, error)

	// Likes and shares
	CreateLike(ctx context.Context, userID, postID string) (changed bool, err error)
	DeleteLike(ctx context.Context, userID, postID string) (changed bool, err error)
	HasLiked(ctx context.Context, userID, postID string) (bool, error)
	CreateShare(ctx context.Context, userID, postID string) (changed bool, err error)
	DeleteShare(ctx context.Context, userID, postID string) (changed bool, err error)
	HasShared(ctx context.Context, userID, postID string) (bool, error)
	// GetLikedPostIDs reports which of postIDs the user has liked.
	GetLikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	GetSharedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	GetNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	GetUnreadNotificationCount(ctx context.Context, userID string) (int64, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error

	// Verification requests
	CreateVerificationRequest(ctx context.Context, req *models.VerificationRequest) error
	GetVerificationRequests(ctx context.Context, userID string) ([]models.VerificationRequest, error)
	GetPendingVerificationRequests(ctx context.Context) ([]models.VerificationRequest, error)
	GetVerificationRequest(ctx context.Context, id string) (*models.VerificationRequest, error)
	UpdateVerificationRequest(ctx context.Context, id string, status models.VerificationStatus, adminNotes, reviewedBy string) error

	// One-time codes
	SaveOTP(ctx context.Context, otp *models.OTP) error
	// GetActiveOTP returns the newest unused, unexpired code for the phone.
	GetActiveOTP(ctx context.Context, phone string) (*models.OTP, error)
	MarkOTPUsed(ctx context.Context, id string) error
}
