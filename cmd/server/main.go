package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"rssagg/backend/internal/cache"
	"rssagg/backend/internal/config"
	"rssagg/backend/internal/db"
	"rssagg/backend/internal/handler"
	transport "rssagg/backend/internal/http"
	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/network"
	"rssagg/backend/internal/repository"
	"rssagg/backend/internal/scheduler"
	"rssagg/backend/internal/service"
	"rssagg/backend/internal/service/rss"
	"rssagg/backend/internal/snowflake"
)

// @title RSS Aggregator API
// @version 1.0
// @description Preview syndication feeds and save selected items as posts.
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel))

	if err := snowflake.Init(cfg.NodeID); err != nil {
		log.Fatalf("init snowflake: %v", err)
	}

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer dbConn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, purger, closeStore, err := openCache(ctx, cfg)
	if err != nil {
		log.Fatalf("open cache: %v", err)
	}
	defer closeStore()

	feedSourceRepo := repository.NewFeedSourceRepository(dbConn)
	postRepo := repository.NewPostRepository(dbConn)

	clientFactory := network.NewClientFactory(network.StaticProxy(cfg.ProxyURL))
	parser := rss.NewHTTPParser(clientFactory, rss.ParserOptions{
		Timeout:         cfg.FetchTimeout,
		QPS:             cfg.FetchQPS,
		BreakerFailures: cfg.BreakerFailures,
		BreakerOpenTime: cfg.BreakerOpenTime,
	})
	normalizer := rss.NewNormalizer(cfg.DateFormat, cfg.Location())

	fetchService := service.NewFetchService(parser, store, normalizer)
	feedSourceService := service.NewFeedSourceService(feedSourceRepo)
	postService := service.NewPostService(postRepo, feedSourceRepo)

	aggregatorHandler := handler.NewAggregatorHandler(fetchService, feedSourceService, postService, handler.AggregatorOptions{
		PreviewItemCount: cfg.PreviewItemCount,
		CacheTTL:         cfg.CacheTTL,
	})

	router := transport.NewRouter(aggregatorHandler)

	var sched *scheduler.Scheduler
	if purger != nil {
		sched = scheduler.New(purger, cfg.CachePurgeInterval)
		sched.Start()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", "module", "main", "action", "start", "resource", "http", "result", "ok", "addr", cfg.Addr, "cache_backend", cfg.CacheBackend)
		if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "module", "main", "action", "stop", "resource", "http", "result", "ok")
		if sched != nil {
			sched.Stop()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "module", "main", "action", "stop", "resource", "http", "result", "failed", "error", err)
		os.Exit(1)
	}
}

func openCache(ctx context.Context, cfg config.Config) (cache.Store, cache.Purger, func(), error) {
	if cfg.CacheBackend == config.CacheBackendRedis {
		store, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() { _ = store.Close() }, nil
	}
	store := cache.NewMemory()
	return store, store, func() {}, nil
}
