package store

import (
	"context"
	"sync"

	"maturity.app/assessor/internal/model"
)

const BackendMemory = "memory"

// MemoryStore keeps snapshots in process. Used by tests and throwaway runs.
type MemoryStore struct {
	mu      sync.RWMutex
	opts    options
	nextID  int64
	records []model.Snapshot
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{opts: buildOptions(opts)}
}

func (s *MemoryStore) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rec := model.Snapshot{
		ID:           s.nextID,
		Timestamp:    model.FormatTimestamp(s.opts.now()),
		State:        snap.State,
		DerivedScore: copyScore(snap.DerivedScore),
	}
	s.records = append(s.records, rec)
	return &rec, nil
}

func (s *MemoryStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, ErrNotFound
	}
	rec := s.records[len(s.records)-1]
	rec.DerivedScore = copyScore(rec.DerivedScore)
	return &rec, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Snapshot, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		rec.DerivedScore = copyScore(rec.DerivedScore)
		out = append(out, rec)
	}
	return out, nil
}

// Clear drops every record. Keys keep increasing afterwards.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Backend() string { return BackendMemory }

func (s *MemoryStore) Close() error { return nil }

func copyScore(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
