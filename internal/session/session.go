// Package session holds the single in-progress assessment. Every mutation
// runs to completion under one lock and answers with fresh aggregates, so two
// changes never interleave.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/service"
	"maturity.app/assessor/internal/store"
)

// State is what every operation returns: a detached copy of the selection
// plus the aggregates computed from it.
type State struct {
	Selection  model.Selection     `json:"selection"`
	Aggregates maturity.Aggregates `json:"aggregates"`
	// LoadedFrom is the snapshot the selection was last loaded from or saved
	// as, nil for a fresh session.
	LoadedFrom *int64 `json:"loaded_from,omitempty"`
}

type Session struct {
	mu         sync.Mutex
	engine     *maturity.Engine
	snapshots  service.SnapshotService
	selection  model.Selection
	loadedFrom *int64
}

func New(engine *maturity.Engine, snapshots service.SnapshotService) *Session {
	return &Session{
		engine:    engine,
		snapshots: snapshots,
		selection: model.NewSelection(),
	}
}

func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Select sets one sub-dimension to level. The level must lie within [1, L]
// for that sub-dimension; on error the selection is unchanged.
func (s *Session) Select(dim, sub, level int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxLevel := s.engine.Catalog().MaxLevel(dim, sub)
	if maxLevel == 0 {
		return State{}, fmt.Errorf("%w: unknown sub-dimension (%d, %d)", model.ErrInvalidSelection, dim, sub)
	}
	if level < 1 || level > maxLevel {
		return State{}, fmt.Errorf("%w: level %d for (%d, %d) outside [1, %d]", model.ErrInvalidSelection, level, dim, sub, maxLevel)
	}
	if err := s.selection.Set(dim, sub, level); err != nil {
		return State{}, err
	}
	return s.stateLocked()
}

// Clear unselects one sub-dimension.
func (s *Session) Clear(dim, sub int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Catalog().MaxLevel(dim, sub) == 0 {
		return State{}, fmt.Errorf("%w: unknown sub-dimension (%d, %d)", model.ErrInvalidSelection, dim, sub)
	}
	s.selection.Clear(dim, sub)
	return s.stateLocked()
}

// Reset drops every selection.
func (s *Session) Reset() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = model.NewSelection()
	s.loadedFrom = nil
	return s.stateLocked()
}

// Replace swaps in a whole selection after validating it.
func (s *Session) Replace(sel model.Selection) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := sel.Validate(s.engine.Catalog()); err != nil {
		return State{}, err
	}
	s.selection = sel.Clone()
	return s.stateLocked()
}

// Load copies the latest snapshot into the session. An empty history yields
// a fresh selection rather than an error. A stored selection that no longer
// fits the catalog leaves the session untouched.
func (s *Session) Load(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, rec, err := s.snapshots.LatestSelection(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		slog.InfoContext(ctx, "no saved snapshot, starting fresh assessment")
		s.selection = model.NewSelection()
		s.loadedFrom = nil
		return s.stateLocked()
	case err != nil:
		return State{}, err
	}

	if err := sel.Validate(s.engine.Catalog()); err != nil {
		return State{}, fmt.Errorf("snapshot %d: %w", rec.ID, err)
	}
	s.selection = sel.Clone()
	s.loadedFrom = &rec.ID
	return s.stateLocked()
}

// Save appends the current selection. A failed save leaves the session as it
// was.
func (s *Session) Save(ctx context.Context) (*model.Snapshot, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.snapshots.Save(ctx, s.selection.Clone())
	if err != nil {
		return nil, State{}, err
	}
	s.loadedFrom = &rec.ID
	st, err := s.stateLocked()
	return rec, st, err
}

func (s *Session) stateLocked() (State, error) {
	agg, err := s.engine.Recompute(s.selection)
	if err != nil {
		return State{}, err
	}
	st := State{Selection: s.selection.Clone(), Aggregates: agg}
	if s.loadedFrom != nil {
		id := *s.loadedFrom
		st.LoadedFrom = &id
	}
	return st, nil
}
