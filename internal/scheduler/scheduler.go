package scheduler

import (
	"context"
	"sync"
	"time"

	"rssagg/backend/internal/cache"
	"rssagg/backend/internal/logger"
)

// Scheduler periodically removes expired entries from a cache store.
type Scheduler struct {
	purger     cache.Purger
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc // cancels the current purge
	mu         sync.Mutex         // protects cancelFunc
}

func New(purger cache.Purger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Scheduler{
		purger:   purger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "action", "purge", "resource", "cache", "result", "ok", "interval_ms", s.interval.Milliseconds())
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "purge", "resource", "cache", "result", "ok")
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	removed, err := s.purger.Purge(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("cache purge cancelled", "module", "scheduler", "action", "purge", "resource", "cache", "result", "cancelled")
			return
		}
		logger.Error("cache purge failed", "module", "scheduler", "action", "purge", "resource", "cache", "result", "failed", "error", err)
		return
	}
	logger.Debug("cache purge completed", "module", "scheduler", "action", "purge", "resource", "cache", "result", "ok", "removed", removed)
}
