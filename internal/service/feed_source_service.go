package service

import (
	"context"
	"fmt"
	"strings"

	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/metrics"
	"rssagg/backend/internal/model"
	"rssagg/backend/internal/repository"
)

//go:generate mockgen -source=feed_source_service.go -destination=mock/feed_source_service.go -package=mock

type FeedSourceService interface {
	// Resolve returns feedID when it is positive. Otherwise it looks up the
	// feed source named feedURL and creates it when absent.
	Resolve(ctx context.Context, feedURL string, feedID int64) (int64, error)
	List(ctx context.Context) ([]model.FeedSource, error)
}

type feedSourceService struct {
	sources repository.FeedSourceRepository
}

func NewFeedSourceService(sources repository.FeedSourceRepository) FeedSourceService {
	return &feedSourceService{sources: sources}
}

func (s *feedSourceService) Resolve(ctx context.Context, feedURL string, feedID int64) (int64, error) {
	if feedID > 0 {
		return feedID, nil
	}
	name := strings.TrimSpace(feedURL)
	if name == "" {
		return 0, &MissingFieldError{Field: "feedUrl"}
	}

	existing, err := s.sources.FindByName(ctx, name)
	if err != nil {
		logger.Warn("feed source lookup failed", "module", "service", "action", "read", "resource", "feed_source", "result", "failed", "name", name, "error", err)
	} else if existing != nil {
		return existing.ID, nil
	}

	created, err := s.sources.Create(ctx, name)
	if err != nil {
		// A concurrent resolve may have inserted the same name first.
		if existing, findErr := s.sources.FindByName(ctx, name); findErr == nil && existing != nil {
			return existing.ID, nil
		}
		logger.Error("feed source create failed", "module", "service", "action", "create", "resource", "feed_source", "result", "failed", "name", name, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrSourceCreation, err)
	}
	metrics.RecordFeedSourceCreated()
	logger.Info("feed source created", "module", "service", "action", "create", "resource", "feed_source", "result", "ok", "feed_source_id", created.ID, "name", name)
	return created.ID, nil
}

func (s *feedSourceService) List(ctx context.Context) ([]model.FeedSource, error) {
	return s.sources.List(ctx)
}
