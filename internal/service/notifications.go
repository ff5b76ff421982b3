package service

import (
	"context"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
)

// NotificationWithActor is a notification enriched with the profile of the
// user who triggered it.
type NotificationWithActor struct {
	models.Notification
	FromUser models.UserCompact `json:"from_user"`
}

// GetNotifications returns the user's newest notifications with the acting
// user's profile attached.
func (s *Service) GetNotifications(ctx context.Context, userID string) ([]NotificationWithActor, error) {
	notifications, err := s.store.GetNotifications(ctx, userID, s.opts.NotificationPageSize)
	if err != nil {
		return nil, err
	}

	actors := make(map[string]models.UserCompact)
	enriched := make([]NotificationWithActor, 0, len(notifications))
	for _, n := range notifications {
		actor, ok := actors[n.FromUserID]
		if !ok {
			from, err := s.store.GetUser(ctx, n.FromUserID)
			if err != nil {
				if !apperrors.IsKind(err, apperrors.KindNotFound) {
					return nil, err
				}
				from = &models.User{ID: n.FromUserID, Username: "unknown"}
			}
			actor = from.ToCompact()
			actors[n.FromUserID] = actor
		}
		enriched = append(enriched, NotificationWithActor{Notification: n, FromUser: actor})
	}
	return enriched, nil
}

// UnreadNotificationCount returns how many unread notifications the user has.
func (s *Service) UnreadNotificationCount(ctx context.Context, userID string) (int64, error) {
	return s.store.GetUnreadNotificationCount(ctx, userID)
}

// MarkNotificationRead marks one of the user's notifications as read.
// Touching someone else's notification is forbidden.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return apperrors.Forbidden("notification belongs to another user")
	}
	return s.store.MarkNotificationRead(ctx, notificationID)
}

// MarkAllNotificationsRead marks every notification for the user as read.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
