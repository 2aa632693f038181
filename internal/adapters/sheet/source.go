// Package sheet fetches the raw CSV export of the volunteer log.
package sheet

import "context"

// Source returns the full text of the latest export.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	Name() string
}

// Watcher is implemented by sources that can signal changes. The returned
// channel is closed when ctx ends.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
