package models

import "time"

// Follow is a directed edge from FollowerID to FollowingID, unique per pair.
type Follow struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	FollowerID  string    `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following;size:36" bson:"follower_id"`
	FollowingID string    `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following;size:36" bson:"following_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// CreateFollowRequest defines the request body for following a user.
type CreateFollowRequest struct {
	FollowingID string `json:"following_id" validate:"required"`
}
