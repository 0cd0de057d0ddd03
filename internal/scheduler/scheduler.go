// Package scheduler keeps the article cache warm in the background.
package scheduler

import (
	"context"
	"time"

	"newstyping/internal/article/model"
	"newstyping/pkg/logger"
)

type Cleaner interface {
	Cleanup(ctx context.Context) (model.CleanupResult, error)
}

type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler drops expired articles and then ingests fresh ones on every tick.
type Scheduler struct {
	interval  time.Duration
	cleaner   Cleaner
	refresher Refresher
	// tick is called after each completed run; tests hook into it.
	tick func()
}

// New returns a scheduler. A non-positive interval disables it.
func New(interval time.Duration, cleaner Cleaner, refresher Refresher) *Scheduler {
	return &Scheduler{interval: interval, cleaner: cleaner, refresher: refresher}
}

func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		logger.Sugar.Info("Article refresh scheduler disabled")
		return
	}

	logger.Sugar.Infof("Article refresh scheduler running every %s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one cleanup and refresh. Failures are logged; the next
// tick tries again.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.cleaner != nil {
		if result, err := s.cleaner.Cleanup(ctx); err != nil {
			logger.Sugar.Errorf("Scheduled cleanup failed: %v", err)
		} else if result.DeletedCount > 0 {
			logger.Sugar.Infow("Scheduled cleanup removed expired articles", "deleted", result.DeletedCount)
		}
	}

	if s.refresher != nil {
		if n, err := s.refresher.Refresh(ctx); err != nil {
			logger.Sugar.Errorf("Scheduled refresh failed: %v", err)
		} else {
			logger.Sugar.Infow("Scheduled refresh stored articles", "inserted", n)
		}
	}

	if s.tick != nil {
		s.tick()
	}
}
