package service

import (
	"context"
	"fmt"

	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/push"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

// Like records that userID likes postID. Liking twice is a no-op success,
// so the post's counter moves by at most one per user.
func (s *Service) Like(ctx context.Context, userID, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	changed, err := s.store.CreateLike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.store.AdjustPostCounter(ctx, postID, storage.CounterLikes, 1); err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn("Failed to bump likes count")
	}
	if post.AuthorID != userID {
		s.emitNotification(ctx, &models.Notification{
			UserID:     post.AuthorID,
			FromUserID: userID,
			Type:       models.NotificationLike,
			PostID:     &post.ID,
			Message:    fmt.Sprintf("%s liked your post", user.Username),
		})
	}
	s.broadcast(push.EventPostLiked, map[string]string{"post_id": postID, "user_id": userID})
	return nil
}

// Unlike removes userID's like from postID. Unliking a post that was never
// liked is a no-op success and leaves the counter untouched.
func (s *Service) Unlike(ctx context.Context, userID, postID string) error {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return err
	}

	changed, err := s.store.DeleteLike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.store.AdjustPostCounter(ctx, postID, storage.CounterLikes, -1); err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn("Failed to drop likes count")
	}
	s.broadcast(push.EventPostUnliked, map[string]string{"post_id": postID, "user_id": userID})
	return nil
}

// Share records that userID shared postID, idempotently.
func (s *Service) Share(ctx context.Context, userID, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	changed, err := s.store.CreateShare(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.store.AdjustPostCounter(ctx, postID, storage.CounterShares, 1); err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn("Failed to bump shares count")
	}
	if post.AuthorID != userID {
		s.emitNotification(ctx, &models.Notification{
			UserID:     post.AuthorID,
			FromUserID: userID,
			Type:       models.NotificationShare,
			PostID:     &post.ID,
			Message:    fmt.Sprintf("%s shared your post", user.Username),
		})
	}
	s.broadcast(push.EventPostShared, map[string]string{"post_id": postID, "user_id": userID})
	return nil
}

// Unshare removes userID's share of postID, idempotently.
func (s *Service) Unshare(ctx context.Context, userID, postID string) error {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return err
	}

	changed, err := s.store.DeleteShare(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.store.AdjustPostCounter(ctx, postID, storage.CounterShares, -1); err != nil {
		s.log.WithError(err).WithField("post_id", postID).Warn("Failed to drop shares count")
	}
	s.broadcast(push.EventPostUnshared, map[string]string{"post_id": postID, "user_id": userID})
	return nil
}
