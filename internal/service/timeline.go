package service

import (
	"context"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
)

// Timeline assembles the home feed for userID: posts by followed users plus
// the user's own, newest first, capped at the configured page size. The feed
// is computed on read; nothing is precomputed on write.
func (s *Service) Timeline(ctx context.Context, userID string) ([]models.PostWithAuthor, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	followingIDs, err := s.store.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(followingIDs, userID)

	posts, err := s.store.GetPostsByAuthors(ctx, authorIDs, s.opts.TimelinePageSize)
	if err != nil {
		return nil, err
	}
	return s.enrichPosts(ctx, userID, posts)
}
