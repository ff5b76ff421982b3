package models

import "time"

// NotificationType enumerates what triggered a notification.
type NotificationType string

const (
	NotificationLike   NotificationType = "like"
	NotificationShare  NotificationType = "share"
	NotificationFollow NotificationType = "follow"
	NotificationReply  NotificationType = "reply"
)

// Notification is an auxiliary record written as a side effect of another
// mutation. Only the read flag is ever mutated after creation.
type Notification struct {
	ID         string           `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID     string           `json:"user_id" gorm:"index;size:36" bson:"user_id"`
	FromUserID string           `json:"from_user_id" gorm:"index;size:36" bson:"from_user_id"`
	Type       NotificationType `json:"type" gorm:"size:30;index" bson:"type"`
	PostID     *string          `json:"post_id,omitempty" gorm:"size:36" bson:"post_id,omitempty"`
	Message    string           `json:"message" bson:"message"`
	IsRead     bool             `json:"is_read" gorm:"default:false;index" bson:"is_read"`
	CreatedAt  time.Time        `json:"created_at" gorm:"index" bson:"created_at"`
}
