// Package repository holds the in-memory snapshot of the volunteer log.
package repository

import (
	"context"
	"time"

	"github.com/okian/pvsa/internal/domain/model"
)

// Snapshot is one parsed load of the sheet. It is never mutated after it is
// published.
type Snapshot struct {
	Rows     []model.Row
	LoadedAt time.Time
	Source   string
}

// Store provides read access to the latest snapshot and a way to refresh it.
type Store interface {
	// Load fetches and parses the sheet, replacing the active snapshot on success.
	// On failure the previous snapshot stays active.
	Load(ctx context.Context) (*Snapshot, error)

	// Snapshot returns the active snapshot.
	// Returns ErrNotLoaded before the first successful Load.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Count returns the number of rows in the active snapshot.
	Count(ctx context.Context) int
}
