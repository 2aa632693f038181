// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pvsa/internal/adapters/refresh"
	"github.com/okian/pvsa/internal/adapters/repository"
	"github.com/okian/pvsa/internal/adapters/sheet"
	"github.com/okian/pvsa/internal/domain/aggregate"
	"github.com/okian/pvsa/internal/domain/award"
	"github.com/okian/pvsa/internal/domain/classify"
	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/period"
	"github.com/okian/pvsa/internal/domain/records"
	"github.com/okian/pvsa/pkg/logger"
	"github.com/okian/pvsa/pkg/metrics"
)

const (
	defaultRefreshInterval = 5 * time.Minute
	stopTimeout            = 10 * time.Second
)

// Service answers volunteer lookups from the latest sheet snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     sheet.Source
	store      *repository.SnapshotStore
	aggregator *aggregate.Aggregator
	refresher  *refresh.Refresher

	// Configuration
	refreshInterval time.Duration
	categoryHours   map[string]float64
	trigger         <-chan struct{}
	now             func() time.Time

	// State
	started bool
	cancel  context.CancelFunc
	lookups atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a new Service. Without WithSource the service can answer
// Eligibility and Period but every Lookup fails with ErrNotReady.
func New(opts ...Option) *Service {
	s := &Service{
		refreshInterval: defaultRefreshInterval,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	classifier := classify.New(classify.WithCategoryHours(s.categoryHours))
	s.aggregator = aggregate.New(aggregate.WithClock(s.now), aggregate.WithClassifier(classifier))
	if s.source != nil {
		s.store = repository.NewSnapshotStore(s.source,
			repository.WithClock(s.now),
			repository.WithLogger(s.logger.Named("repository")),
		)
	}
	return s
}

// Start loads the sheet and begins background refreshes. A failed first
// load is logged, not returned; lookups answer ErrNotReady until a reload
// succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting volunteer hours service...", logger.String("source", s.source.Name()))

	if _, err := s.store.Load(ctx); err != nil {
		s.logger.Warn(ctx, "initial sheet load failed", logger.Error(err))
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.refresher = refresh.New(s.store,
		refresh.WithInterval(s.refreshInterval),
		refresh.WithTrigger(s.trigger),
		refresh.WithLogger(s.logger.Named("refresher")),
	)
	go s.refresher.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "volunteer hours service started",
		logger.Int("rows", s.store.Count(ctx)),
		logger.Duration("refreshInterval", s.refreshInterval),
	)
	return nil
}

// Stop gracefully shuts down background refreshes.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping volunteer hours service...")
	if err := s.refresher.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "refresher shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "volunteer hours service stopped")
}

// Refresh reloads the sheet now.
func (s *Service) Refresh(ctx context.Context) error {
	if s.store == nil {
		return ErrNoSource
	}
	if _, err := s.store.Load(ctx); err != nil {
		return err
	}
	return nil
}

// Lookup matches the volunteer's rows, aggregates their hours and, when a
// birthdate is given, evaluates the award against the program-year hours.
// A query that matches nothing is not an error: Found is false.
func (s *Service) Lookup(ctx context.Context, q model.Query) (model.SearchResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))
	}()
	s.lookups.Add(1)

	if strings.TrimSpace(q.Name) == "" && strings.TrimSpace(q.ID) == "" {
		metrics.RecordLookup("invalid")
		return model.SearchResult{}, ErrMissingQuery
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		metrics.RecordLookup("not_ready")
		return model.SearchResult{}, err
	}

	matches := records.MatchRecords(snap.Rows, q.Name, q.ID)
	metrics.RecordMatchedRows(len(matches))
	result := model.SearchResult{Found: len(matches) > 0, MatchCount: len(matches)}
	if !result.Found {
		metrics.RecordLookup("not_found")
		s.logger.Debug(ctx, "no records matched", logger.String("key", records.SearchKey(q.Name, q.ID)))
		return result, nil
	}

	result.Breakdown = s.aggregator.Aggregate(matches)
	if strings.TrimSpace(q.Birthdate) != "" {
		e := s.Eligibility(q.Birthdate, result.Breakdown.AnnualHours)
		result.Eligibility = &e
	}

	metrics.RecordLookup("found")
	s.logger.Debug(ctx, "lookup answered",
		logger.Int("matches", result.MatchCount),
		logger.Float64("totalHours", result.Breakdown.TotalHours),
		logger.Float64("annualHours", result.Breakdown.AnnualHours),
	)
	return result, nil
}

func (s *Service) snapshot(ctx context.Context) (*repository.Snapshot, error) {
	if s.store == nil {
		return nil, ErrNotReady
	}
	snap, err := s.store.Snapshot(ctx)
	if errors.Is(err, repository.ErrNotLoaded) {
		return nil, ErrNotReady
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return snap, nil
}

// Eligibility evaluates a DD/MM/YYYY birthdate against hours.
func (s *Service) Eligibility(birthdate string, hours float64) model.Eligibility {
	e := award.EvaluateBirthdate(birthdate, hours, s.now())
	metrics.RecordEligibility(string(e.Award))
	return e
}

// Period returns the application window and the countdown to its next
// boundary.
func (s *Service) Period() model.PeriodInfo {
	now := s.now()
	p := period.Application(now)
	return model.PeriodInfo{
		Period:      p,
		Remaining:   period.Countdown(p.TargetDate, now),
		ProgramYear: award.ProgramYear(now),
		Cutoff:      award.EligibilityCutoff(now),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
		"lookups": s.lookups.Load(),
	}

	if s.source != nil {
		stats["source"] = s.source.Name()
	}
	if s.store != nil {
		rows := s.store.Count(ctx)
		stats["rows"] = rows
		if snap, err := s.store.Snapshot(ctx); err == nil {
			stats["loadedAt"] = snap.LoadedAt.UTC().Format(time.RFC3339)
		}
		metrics.UpdateSheetRows(rows)
	}
	if s.refresher != nil {
		reloads, failures := s.refresher.Stats()
		stats["reloads"] = reloads
		stats["reloadFailures"] = failures
	}

	return stats
}
