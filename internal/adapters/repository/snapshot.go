package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/pvsa/internal/adapters/sheet"
	"github.com/okian/pvsa/internal/domain/records"
	"github.com/okian/pvsa/pkg/logger"
	"github.com/okian/pvsa/pkg/metrics"
)

const loadKey = "sheet"

// SnapshotStore keeps the most recent successfully parsed export. Readers
// never block on a reload; concurrent Load calls share one fetch.
type SnapshotStore struct {
	source  sheet.Source
	current atomic.Pointer[Snapshot]
	group   singleflight.Group
	now     func() time.Time
	logger  logger.Logger
}

var _ Store = (*SnapshotStore)(nil)

// NewSnapshotStore creates an empty store backed by src.
func NewSnapshotStore(src sheet.Source, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		source: src,
		now:    time.Now,
		logger: logger.Get().Named("repository"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Store.
func (s *SnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	v, err, shared := s.group.Do(loadKey, func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug(ctx, "joined in-flight sheet load")
	}
	snap, _ := v.(*Snapshot)
	return snap, nil
}

func (s *SnapshotStore) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSheetRefreshDuration(float64(time.Since(start).Milliseconds()))
	}()

	text, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.RecordSheetRefresh("error")
		metrics.RecordErrorByComponent("repository", "fetch_error")
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, s.source.Name(), err)
	}

	rows := records.ParseRows(text)
	if prev := s.current.Load(); len(rows) == 0 && prev != nil && len(prev.Rows) > 0 {
		metrics.RecordSheetRefresh("error")
		metrics.RecordErrorByComponent("repository", "empty_export")
		return nil, fmt.Errorf("%w: %s", ErrEmpty, s.source.Name())
	}

	snap := &Snapshot{Rows: rows, LoadedAt: s.now(), Source: s.source.Name()}
	s.current.Store(snap)

	metrics.RecordSheetRefresh("success")
	metrics.UpdateSheetRows(len(rows))
	metrics.UpdateSheetLastLoaded(snap.LoadedAt.Unix())
	s.logger.Info(ctx, "sheet loaded",
		logger.String("source", snap.Source),
		logger.Int("rows", len(rows)),
		logger.Duration("took", time.Since(start)),
	)
	return snap, nil
}

// Snapshot implements Store.
func (s *SnapshotStore) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Count implements Store.
func (s *SnapshotStore) Count(_ context.Context) int {
	if snap := s.current.Load(); snap != nil {
		return len(snap.Rows)
	}
	return 0
}
