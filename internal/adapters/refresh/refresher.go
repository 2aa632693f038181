package refresh

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pvsa/internal/adapters/repository"
	"github.com/okian/pvsa/pkg/logger"
)

const defaultInterval = 5 * time.Minute

// Loader refreshes the snapshot.
type Loader interface {
	Load(ctx context.Context) (*repository.Snapshot, error)
}

// Refresher calls Load on an interval and whenever its trigger fires. A
// failed reload is logged and the previous snapshot stays active.
type Refresher struct {
	loader   Loader
	name     string
	interval time.Duration
	trigger  <-chan struct{}

	// Shutdown control
	started      atomic.Bool
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	reloads  atomic.Int64
	failures atomic.Int64

	logger logger.Logger
}

// New creates a Refresher for loader.
func New(loader Loader, opts ...Option) *Refresher {
	r := &Refresher{
		loader:   loader,
		name:     "refresher",
		interval: defaultInterval,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("refresher"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name != "refresher" {
		r.logger = r.logger.Named(r.name)
	}
	return r
}

// Run blocks until ctx is canceled, Shutdown is called, or the trigger is
// closed and no interval is set.
func (r *Refresher) Run(ctx context.Context) {
	r.started.Store(true)
	defer close(r.done)

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	trigger := r.trigger

	for {
		if tick == nil && trigger == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case <-tick:
			r.reload(ctx, "interval")
		case _, ok := <-trigger:
			if !ok {
				trigger = nil
				continue
			}
			r.reload(ctx, "trigger")
		}
	}
}

func (r *Refresher) reload(ctx context.Context, reason string) {
	r.reloads.Add(1)
	snap, err := r.loader.Load(ctx)
	if err != nil {
		r.failures.Add(1)
		r.logger.Error(ctx, "sheet reload failed", logger.String("reason", reason), logger.Error(err))
		return
	}
	r.logger.Debug(ctx, "sheet reloaded", logger.String("reason", reason), logger.Int("rows", len(snap.Rows)))
}

// Shutdown stops the loop and waits for an in-progress reload to finish.
func (r *Refresher) Shutdown(ctx context.Context) error {
	r.shutdownOnce.Do(func() { close(r.shutdown) })
	if !r.started.Load() {
		return nil
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats reports how many reloads ran and how many failed.
func (r *Refresher) Stats() (reloads, failures int64) {
	return r.reloads.Load(), r.failures.Load()
}
