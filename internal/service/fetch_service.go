package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"rssagg/backend/internal/cache"
	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/metrics"
	"rssagg/backend/internal/model"
	"rssagg/backend/internal/service/rss"
)

//go:generate mockgen -source=fetch_service.go -destination=mock/fetch_service.go -package=mock

const (
	MaxItemCount     = 20
	DefaultItemCount = 10
	cacheKeyPrefix   = "rss:items:"
)

// FetchOptions controls which fields are returned and how long the batch is cached.
type FetchOptions struct {
	ShowAuthor   bool `json:"showAuthor"`
	ShowDate     bool `json:"showDate"`
	ShowSummary  bool `json:"showSummary"`
	ShowImage    bool `json:"showImage"`
	ItemCount    int  `json:"itemCount"`
	CacheSeconds int  `json:"cacheSeconds"`
}

type FetchService interface {
	// FetchItems returns up to ItemCount normalized items of the feed at feedURL.
	// bypassCache skips the cache read; the fresh result is still cached.
	FetchItems(ctx context.Context, feedURL string, opts FetchOptions, bypassCache bool) ([]model.FeedItem, error)
}

type fetchService struct {
	parser     rss.Parser
	store      cache.Store
	normalizer *rss.Normalizer
}

func NewFetchService(parser rss.Parser, store cache.Store, normalizer *rss.Normalizer) FetchService {
	if normalizer == nil {
		normalizer = rss.NewNormalizer("", nil)
	}
	return &fetchService{parser: parser, store: store, normalizer: normalizer}
}

func (s *fetchService) FetchItems(ctx context.Context, feedURL string, opts FetchOptions, bypassCache bool) ([]model.FeedItem, error) {
	key := CacheKey(feedURL, opts)

	if opts.ItemCount < 1 || opts.ItemCount > MaxItemCount {
		opts.ItemCount = DefaultItemCount
	}

	if bypassCache {
		metrics.RecordCacheLookup(metrics.CacheBypass)
	} else if opts.CacheSeconds > 0 {
		if items, ok := s.cached(ctx, key); ok {
			return items, nil
		}
	}

	feed, err := s.parser.Parse(ctx, feedURL)
	if err != nil {
		metrics.RecordFetch(metrics.FetchParseError, 0)
		logger.Warn("feed parse failed", "module", "service", "action", "fetch", "resource", "feed", "result", "failed", "url", feedURL, "error", err)
		return nil, &FetchError{Message: "RSS Error: " + err.Error(), Err: err}
	}
	if feed == nil || len(feed.Items) == 0 {
		metrics.RecordFetch(metrics.FetchEmpty, 0)
		logger.Warn("feed has no items", "module", "service", "action", "fetch", "resource", "feed", "result", "empty", "url", feedURL)
		return nil, &FetchError{Message: emptyFeedMessage}
	}

	sources := feed.Items
	if len(sources) > opts.ItemCount {
		sources = sources[:opts.ItemCount]
	}
	fields := rss.Fields{
		Author:  opts.ShowAuthor,
		Date:    opts.ShowDate,
		Summary: opts.ShowSummary,
		Image:   opts.ShowImage,
	}
	items := make([]model.FeedItem, 0, len(sources))
	for i, item := range sources {
		if item == nil {
			continue
		}
		items = append(items, s.normalizer.Item(item, i, feedURL, fields))
	}
	metrics.RecordFetch(metrics.FetchOK, len(items))

	if opts.CacheSeconds > 0 {
		s.save(ctx, key, items, time.Duration(opts.CacheSeconds)*time.Second)
	}

	logger.Info("feed fetched", "module", "service", "action", "fetch", "resource", "feed", "result", "ok", "url", feedURL, "count", len(items))
	return items, nil
}

func (s *fetchService) cached(ctx context.Context, key string) ([]model.FeedItem, bool) {
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheLookup(metrics.CacheError)
		logger.Warn("feed cache read failed", "module", "service", "action", "read", "resource", "cache", "result", "failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		metrics.RecordCacheLookup(metrics.CacheMiss)
		return nil, false
	}
	var items []model.FeedItem
	if err := json.Unmarshal(data, &items); err != nil {
		metrics.RecordCacheLookup(metrics.CacheError)
		logger.Warn("feed cache entry corrupt", "module", "service", "action", "read", "resource", "cache", "result", "failed", "key", key, "error", err)
		return nil, false
	}
	metrics.RecordCacheLookup(metrics.CacheHit)
	return items, true
}

func (s *fetchService) save(ctx context.Context, key string, items []model.FeedItem, ttl time.Duration) {
	data, err := json.Marshal(items)
	if err != nil {
		logger.Warn("feed cache encode failed", "module", "service", "action", "write", "resource", "cache", "result", "failed", "key", key, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("feed cache write failed", "module", "service", "action", "write", "resource", "cache", "result", "failed", "key", key, "error", err)
	}
}

// CacheKey fingerprints a feed URL together with the options as supplied by the caller.
func CacheKey(feedURL string, opts FetchOptions) string {
	payload, _ := json.Marshal(struct {
		FeedURL string       `json:"feedUrl"`
		Options FetchOptions `json:"options"`
	}{FeedURL: feedURL, Options: opts})
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
