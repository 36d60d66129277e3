// Package store persists the append-only snapshot history.
//
// Every backend hands out strictly increasing keys, so Latest is simply the
// highest key. Insertion order and wall-clock order can diverge when the
// clock is skewed; List returns the backend's native order (newest key first)
// and callers that need chronological order must sort by timestamp.
package store

import (
	"context"
	"errors"
	"time"

	"maturity.app/assessor/internal/model"
)

var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore is implemented by every backend.
type SnapshotStore interface {
	// Append stamps the current time, assigns the next key and persists the
	// record atomically.
	Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error)

	// Latest returns the highest-key record or ErrNotFound.
	Latest(ctx context.Context) (*model.Snapshot, error)

	// List returns every record, newest key first.
	List(ctx context.Context) ([]model.Snapshot, error)

	// Clear removes every record, or none on failure.
	Clear(ctx context.Context) error

	// Backend names the implementation for logs and metrics.
	Backend() string

	Close() error
}

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
