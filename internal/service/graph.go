package service

import (
	"context"
	"fmt"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/push"
)

// Follow makes followerID follow followingID. Following an already-followed
// user is a no-op success; the edge is created at most once.
func (s *Service) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperrors.InvalidOperation("cannot follow self")
	}

	follower, err := s.store.GetUser(ctx, followerID)
	if err != nil {
		return err
	}
	if _, err := s.store.GetUser(ctx, followingID); err != nil {
		return err
	}

	changed, err := s.store.CreateFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.recomputeCounters(ctx, followerID)
	s.recomputeCounters(ctx, followingID)

	s.emitNotification(ctx, &models.Notification{
		UserID:     followingID,
		FromUserID: followerID,
		Type:       models.NotificationFollow,
		Message:    fmt.Sprintf("%s started following you", follower.Username),
	})
	s.broadcast(push.EventUserFollowed, map[string]string{
		"follower_id":  followerID,
		"following_id": followingID,
	})
	return nil
}

// Unfollow removes the follow edge. Unfollowing a user who was never
// followed is a no-op success.
func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperrors.InvalidOperation("cannot unfollow self")
	}

	changed, err := s.store.DeleteFollow(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.recomputeCounters(ctx, followerID)
	s.recomputeCounters(ctx, followingID)
	s.broadcast(push.EventUserUnfollowed, map[string]string{
		"follower_id":  followerID,
		"following_id": followingID,
	})
	return nil
}

// IsFollowing reports whether followerID currently follows followingID.
func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.store.IsFollowing(ctx, followerID, followingID)
}

// GetFollowers lists the users following userID.
func (s *Service) GetFollowers(ctx context.Context, userID string) ([]models.User, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetFollowers(ctx, userID)
}

// GetFollowing lists the users userID follows.
func (s *Service) GetFollowing(ctx context.Context, userID string) ([]models.User, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.GetFollowing(ctx, userID)
}
