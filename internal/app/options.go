package service

import (
	"time"

	"github.com/okian/pvsa/internal/adapters/sheet"
	"github.com/okian/pvsa/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where the volunteer log is read from.
func WithSource(src sheet.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRefreshInterval sets the periodic reload interval. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithClock sets the time source used for program years, cutoffs and the
// application window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCategoryHours overrides the fixed hours credited per activity category.
func WithCategoryHours(hours map[string]float64) Option {
	return func(s *Service) {
		s.categoryHours = hours
	}
}

// WithTrigger forces a reload whenever ch signals.
func WithTrigger(ch <-chan struct{}) Option {
	return func(s *Service) {
		s.trigger = ch
	}
}
