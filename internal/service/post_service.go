package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/metrics"
	"rssagg/backend/internal/model"
	"rssagg/backend/internal/repository"
)

//go:generate mockgen -source=post_service.go -destination=mock/post_service.go -package=mock

const (
	DefaultPostLimit = 50
	MaxPostLimit     = 200
)

// SaveResult reports the outcome of saving one item.
type SaveResult struct {
	ID    *int64
	Error string
}

type PostService interface {
	// SaveAll inserts every item as a post tagged with feedID (none when 0).
	// Inserts are independent: a failure is recorded and the batch continues.
	// Results are keyed by item title; later duplicates replace earlier ones.
	SaveAll(ctx context.Context, items []model.FeedItem, feedID int64) (map[string]SaveResult, error)
	List(ctx context.Context, feedID *int64, limit, offset int) ([]model.Post, error)
}

type postService struct {
	posts   repository.PostRepository
	sources repository.FeedSourceRepository
}

func NewPostService(posts repository.PostRepository, sources repository.FeedSourceRepository) PostService {
	return &postService{posts: posts, sources: sources}
}

func (s *postService) SaveAll(ctx context.Context, items []model.FeedItem, feedID int64) (map[string]SaveResult, error) {
	if items == nil {
		return nil, &MissingFieldError{Field: "toAdd"}
	}

	var sourceID *int64
	if feedID > 0 {
		sourceID = &feedID
	}

	results := make(map[string]SaveResult, len(items))
	failed := 0
	for _, item := range items {
		created, err := s.posts.Create(ctx, itemToPost(item, sourceID))
		metrics.RecordPostSaved(err == nil)
		if err != nil {
			failed++
			logger.Warn("post save failed", "module", "service", "action", "create", "resource", "post", "result", "failed", "title", item.Title, "error", err)
			results[item.Title] = SaveResult{Error: err.Error()}
			continue
		}
		id := created.ID
		results[item.Title] = SaveResult{ID: &id}
	}

	logger.Info("posts saved", "module", "service", "action", "create", "resource", "post", "result", "ok", "count", len(items)-failed, "failed", failed, "feed_source_id", feedID)
	return results, nil
}

func (s *postService) List(ctx context.Context, feedID *int64, limit, offset int) ([]model.Post, error) {
	if limit <= 0 {
		limit = DefaultPostLimit
	}
	if limit > MaxPostLimit {
		limit = MaxPostLimit
	}
	if offset < 0 {
		return nil, ErrInvalid
	}
	if feedID != nil {
		if _, err := s.sources.GetByID(ctx, *feedID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("check feed source: %w", err)
		}
	}
	return s.posts.List(ctx, repository.PostListFilter{FeedSourceID: feedID, Limit: limit, Offset: offset})
}

func itemToPost(item model.FeedItem, sourceID *int64) model.Post {
	return model.Post{
		FeedSourceID:  sourceID,
		Title:         item.Title,
		Link:          item.Link,
		Image:         deref(item.Image),
		Summary:       deref(item.Summary),
		Author:        deref(item.Author),
		PublishedDate: deref(item.Date),
		Source:        item.Source,
		FeedURL:       item.FeedURL,
		ItemIndex:     item.Index,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
