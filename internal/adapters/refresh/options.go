// Package refresh reloads the sheet snapshot in the background.
package refresh

import (
	"time"

	"github.com/okian/pvsa/pkg/logger"
)

// Option applies a configuration option to the Refresher.
type Option func(*Refresher)

// WithName sets the refresher name for identification and logging.
func WithName(name string) Option {
	return func(r *Refresher) {
		if name != "" {
			r.name = name
		}
	}
}

// WithLogger sets a custom logger for the refresher.
func WithLogger(l logger.Logger) Option {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithInterval sets the periodic reload interval. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d >= 0 {
			r.interval = d
		}
	}
}

// WithTrigger adds a channel whose signals force an immediate reload,
// e.g. a file watch.
func WithTrigger(ch <-chan struct{}) Option {
	return func(r *Refresher) {
		if ch != nil {
			r.trigger = ch
		}
	}
}
