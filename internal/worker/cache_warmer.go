package worker

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-desk/internal/dashboard"
)

const warmTimeout = 30 * time.Second

type snapshotRefresher interface {
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
}

// CacheWarmer periodically reloads the complaint snapshot into the cache and
// logs the status counts it saw.
type CacheWarmer struct {
	svc    snapshotRefresher
	logger *zap.Logger
	c      *cron.Cron
}

// NewCacheWarmer schedules refreshes on spec. An empty spec returns nil.
func NewCacheWarmer(spec string, svc snapshotRefresher, logger *zap.Logger) (*CacheWarmer, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	w := &CacheWarmer{svc: svc, logger: logger, c: cron.New()}
	if _, err := w.c.AddFunc(spec, w.Warm); err != nil {
		return nil, err
	}
	return w, nil
}

// Start runs the scheduler in its own goroutine.
func (w *CacheWarmer) Start() {
	if w == nil {
		return
	}
	w.c.Start()
}

// Stop halts scheduling and waits for a running refresh to finish.
func (w *CacheWarmer) Stop() {
	if w == nil {
		return
	}
	<-w.c.Stop().Done()
}

// Warm performs one refresh.
func (w *CacheWarmer) Warm() {
	ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
	defer cancel()

	snap, err := w.svc.Refresh(ctx)
	if err != nil {
		w.logger.Error("cache warm failed", zap.Error(err))
		return
	}
	counts := snap.StatusCounts()
	w.logger.Info("cache warmed",
		zap.Int("total", counts.Total),
		zap.Int("pending", counts.Pending),
		zap.Int("in_progress", counts.InProgress),
		zap.Int("resolved", counts.Resolved))
}
