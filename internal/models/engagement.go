package models

import "time"

// Like is a (user, post) engagement record, unique per pair.
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like;size:36" bson:"user_id"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like;size:36" bson:"post_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Share is a (user, post) engagement record, unique per pair.
type Share struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID    string    `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_share;size:36" bson:"user_id"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_share;size:36" bson:"post_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
