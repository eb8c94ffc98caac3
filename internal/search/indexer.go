package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reindexer rebuilds a search index.
type Reindexer interface {
	Reindex(ctx context.Context) error
}

// Indexer rebuilds the search index on an interval and on demand.
type Indexer struct {
	target   Reindexer
	interval time.Duration
	logger   *zap.Logger
	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	reloadCh chan struct{}
}

// NewIndexer creates an indexer. intervalSec <= 0 defaults to five minutes.
func NewIndexer(target Reindexer, intervalSec int, logger *zap.Logger) *Indexer {
	if intervalSec <= 0 {
		intervalSec = 300
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{
		target:   target,
		interval: time.Duration(intervalSec) * time.Second,
		logger:   logger,
		reloadCh: make(chan struct{}, 1),
	}
}

// Start builds the index once and then keeps it fresh. Call Stop to release resources.
func (x *Indexer) Start() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	x.cancel = cancel
	x.done = make(chan struct{})
	go x.run(ctx)
	x.logger.Info("search indexer started", zap.Duration("interval", x.interval))
}

// Stop halts the indexer and waits for an in-progress rebuild.
func (x *Indexer) Stop() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.cancel == nil {
		return
	}
	x.cancel()
	x.cancel = nil
	<-x.done
	x.logger.Info("search indexer stopped")
}

// Reload asks for a rebuild ahead of the next tick.
func (x *Indexer) Reload() {
	select {
	case x.reloadCh <- struct{}{}:
	default:
	}
}

func (x *Indexer) run(ctx context.Context) {
	defer close(x.done)
	ticker := time.NewTicker(x.interval)
	defer ticker.Stop()

	rebuild := func() {
		if err := x.target.Reindex(ctx); err != nil && ctx.Err() == nil {
			x.logger.Warn("search reindex failed", zap.Error(err))
		}
	}
	rebuild()

	for {
		select {
		case <-ctx.Done():
			return
		case <-x.reloadCh:
			rebuild()
		case <-ticker.C:
			rebuild()
		}
	}
}
