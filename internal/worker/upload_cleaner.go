package worker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// FileStore exposes temporary uploads to the cleaner.
type FileStore interface {
	Expired(ctx context.Context, olderThan time.Time) ([]string, error)
	Remove(ctx context.Context, name string) error
}

// UploadCleaner periodically removes stale temporary uploads using a worker pool.
type UploadCleaner struct {
	store    FileStore
	interval time.Duration
	ttl      time.Duration
	workers  int
	logger   *slog.Logger
	now      func() time.Time

	jobs    chan string
	removed atomic.Int64
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewUploadCleaner constructs the cleaner. Files older than ttl are removed every interval.
func NewUploadCleaner(store FileStore, interval, ttl time.Duration, workers int, logger *slog.Logger) *UploadCleaner {
	if workers <= 0 {
		workers = 1
	}
	return &UploadCleaner{
		store:    store,
		interval: interval,
		ttl:      ttl,
		workers:  workers,
		logger:   logger,
		now:      time.Now,
		jobs:     make(chan string, workers*4),
	}
}

// Start launches the scan loop and the workers.
func (c *UploadCleaner) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(runCtx)
	}

	c.wg.Add(1)
	go c.dispatch(runCtx)
}

// Stop cancels the scan loop and waits for in-flight removals.
func (c *UploadCleaner) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// Removed returns how many files were deleted since start.
func (c *UploadCleaner) Removed() int64 {
	return c.removed.Load()
}

func (c *UploadCleaner) dispatch(ctx context.Context) {
	defer c.wg.Done()
	defer close(c.jobs)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.scan(ctx)
		}
	}
}

func (c *UploadCleaner) scan(ctx context.Context) {
	names, err := c.store.Expired(ctx, c.now().Add(-c.ttl))
	if err != nil {
		c.logger.Error("list expired uploads failed", slog.String("error", err.Error()))
		return
	}
	for _, name := range names {
		select {
		case <-ctx.Done():
			return
		case c.jobs <- name:
		}
	}
}

func (c *UploadCleaner) worker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-c.jobs:
			if !ok {
				return
			}
			c.remove(ctx, name)
		}
	}
}

func (c *UploadCleaner) remove(ctx context.Context, name string) {
	if err := c.store.Remove(ctx, name); err != nil {
		c.logger.Warn("remove expired upload failed", slog.String("file", name), slog.String("error", err.Error()))
		return
	}
	c.removed.Add(1)
	c.logger.Debug("expired upload removed", slog.String("file", name))
}
