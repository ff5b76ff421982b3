package models

import "time"

// Post is a user post, or a reply when ReplyToID is set. The parent must
// exist at creation time, so reply chains cannot form cycles. Counters are
// derived and adjusted by the storage layer.
type Post struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	AuthorID     string    `json:"author_id" gorm:"index;size:36" bson:"author_id"`
	Content      string    `json:"content" bson:"content"`
	ImageURL     string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ReplyToID    *string   `json:"reply_to_id,omitempty" gorm:"index;size:36" bson:"reply_to_id,omitempty"`
	Category     string    `json:"category,omitempty" gorm:"size:30" bson:"category,omitempty"`
	LikesCount   int       `json:"likes_count" gorm:"default:0" bson:"likes_count"`
	SharesCount  int       `json:"shares_count" gorm:"default:0" bson:"shares_count"`
	RepliesCount int       `json:"replies_count" gorm:"default:0" bson:"replies_count"`
	CreatedAt    time.Time `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// PostWithAuthor is a post enriched with its author profile and the caller's
// own engagement flags, so the client does not need a second round trip.
type PostWithAuthor struct {
	Post
	Author   UserCompact `json:"author"`
	IsLiked  bool        `json:"is_liked"`
	IsShared bool        `json:"is_shared"`
}

// CreatePostRequest defines the request body for creating a new post or reply.
// The content length bound is enforced by the service against the configured
// maximum, not here, because it differs per product skin.
type CreatePostRequest struct {
	Content   string `json:"content" validate:"required"`
	ImageURL  string `json:"image_url,omitempty" validate:"omitempty,url"`
	ReplyToID string `json:"reply_to_id,omitempty"`
}
