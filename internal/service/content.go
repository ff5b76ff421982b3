package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/plantlife/plantlife-backend/internal/apperrors"
	"github.com/plantlife/plantlife-backend/internal/models"
	"github.com/plantlife/plantlife-backend/internal/push"
	"github.com/plantlife/plantlife-backend/internal/storage"
)

// CreatePost validates and stores a new post or reply by authorID.
func (s *Service) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	if authorID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.Validation("content is required")
	}
	if utf8.RuneCountInString(content) > s.opts.MaxPostLength {
		return nil, apperrors.Validation("content exceeds maximum length of %d characters", s.opts.MaxPostLength)
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
		ImageURL: req.ImageURL,
	}

	if s.moderator != nil {
		res := s.moderator.ValidatePost(content)
		if !res.IsValid {
			return nil, apperrors.Validation("%s", res.Reason)
		}
		post.Category = string(res.Category)
	}

	var parent *models.Post
	if req.ReplyToID != "" {
		parent, err = s.store.GetPost(ctx, req.ReplyToID)
		if err != nil {
			return nil, err
		}
		post.ReplyToID = &parent.ID
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.recomputeCounters(ctx, authorID)

	if parent != nil {
		if err := s.store.AdjustPostCounter(ctx, parent.ID, storage.CounterReplies, 1); err != nil {
			s.log.WithError(err).WithField("post_id", parent.ID).Warn("Failed to bump replies count")
		}
		if parent.AuthorID != authorID {
			s.emitNotification(ctx, &models.Notification{
				UserID:     parent.AuthorID,
				FromUserID: authorID,
				Type:       models.NotificationReply,
				PostID:     &parent.ID,
				Message:    fmt.Sprintf("%s replied to your post", author.Username),
			})
		}
	}

	s.broadcast(push.EventPostCreated, post)
	return post, nil
}

// GetPost returns a single post enriched with its author and, when viewerID
// is non-empty, the viewer's engagement flags. viewerID may be empty for
// anonymous reads.
func (s *Service) GetPost(ctx context.Context, viewerID, postID string) (*models.PostWithAuthor, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrichPosts(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// GetReplies returns the direct replies to a post, oldest first.
func (s *Service) GetReplies(ctx context.Context, viewerID, postID string) ([]models.PostWithAuthor, error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	replies, err := s.store.GetReplies(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.enrichPosts(ctx, viewerID, replies)
}

// GetPostsByUser returns a user's posts, newest first.
func (s *Service) GetPostsByUser(ctx context.Context, viewerID, userID string) ([]models.PostWithAuthor, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	posts, err := s.store.GetPostsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.enrichPosts(ctx, viewerID, posts)
}

// DeletePost removes a post owned by requesterID. Engagement rows and
// notifications referencing the post go with it; replies stay and become
// top-level orphans so other users' contributions are not destroyed.
func (s *Service) DeletePost(ctx context.Context, requesterID, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return apperrors.Forbidden("you can only delete your own posts")
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.recomputeCounters(ctx, requesterID)

	if post.ReplyToID != nil {
		if err := s.store.AdjustPostCounter(ctx, *post.ReplyToID, storage.CounterReplies, -1); err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
			s.log.WithError(err).WithField("post_id", *post.ReplyToID).Warn("Failed to drop replies count")
		}
	}

	s.broadcast(push.EventPostDeleted, map[string]string{"id": postID})
	return nil
}

// enrichPosts joins posts with author profiles and the viewer's engagement
// flags in a fixed number of store round trips.
func (s *Service) enrichPosts(ctx context.Context, viewerID string, posts []models.Post) ([]models.PostWithAuthor, error) {
	enriched := make([]models.PostWithAuthor, 0, len(posts))
	if len(posts) == 0 {
		return enriched, nil
	}

	authors := make(map[string]models.UserCompact)
	postIDs := make([]string, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		if _, ok := authors[p.AuthorID]; ok {
			continue
		}
		author, err := s.store.GetUser(ctx, p.AuthorID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				// Author rows can lag behind posts in eventually consistent
				// backends; render a placeholder rather than failing the feed.
				authors[p.AuthorID] = models.UserCompact{ID: p.AuthorID, Username: "unknown"}
				continue
			}
			return nil, err
		}
		authors[p.AuthorID] = author.ToCompact()
	}

	liked := map[string]bool{}
	shared := map[string]bool{}
	if viewerID != "" {
		var err error
		if liked, err = s.store.GetLikedPostIDs(ctx, viewerID, postIDs); err != nil {
			return nil, err
		}
		if shared, err = s.store.GetSharedPostIDs(ctx, viewerID, postIDs); err != nil {
			return nil, err
		}
	}

	for _, p := range posts {
		enriched = append(enriched, models.PostWithAuthor{
			Post:     p,
			Author:   authors[p.AuthorID],
			IsLiked:  liked[p.ID],
			IsShared: shared[p.ID],
		})
	}
	return enriched, nil
}
