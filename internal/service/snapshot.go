package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"maturity.app/assessor/common/logger"
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/metrics"
	"maturity.app/assessor/internal/model"
	"maturity.app/assessor/internal/store"
)

type SnapshotService interface {
	// Save serializes the full selection and appends it. The overall
	// percentage at save time is stored alongside when the selection is
	// complete.
	Save(ctx context.Context, sel model.Selection) (*model.Snapshot, error)

	// Latest returns store.ErrNotFound when nothing has been saved.
	Latest(ctx context.Context) (*model.Snapshot, error)

	// LatestSelection decodes the latest snapshot into a detached selection.
	LatestSelection(ctx context.Context) (model.Selection, *model.Snapshot, error)

	List(ctx context.Context) ([]model.Snapshot, error)
	Clear(ctx context.Context) error
}

type snapshotService struct {
	engine  *maturity.Engine
	store   store.SnapshotStore
	metrics *metrics.Metrics
}

func NewSnapshotService(engine *maturity.Engine, snapshots store.SnapshotStore, m *metrics.Metrics) SnapshotService {
	return &snapshotService{engine: engine, store: snapshots, metrics: m}
}

func (s *snapshotService) Save(ctx context.Context, sel model.Selection) (_ *model.Snapshot, err error) {
	ctx = logger.With(ctx, logger.Fields{
		Backend:   s.store.Backend(),
		Policy:    s.engine.Policy().Name(),
		Component: "assessor.service.snapshot",
	})
	ctx, end := logger.Span(ctx, "snapshot.save", attribute.String("store.backend", s.store.Backend()))
	defer end(&err)

	cat := s.engine.Catalog()
	if err := sel.Validate(cat); err != nil {
		return nil, err
	}
	overall, err := s.engine.Overall(sel)
	if err != nil {
		return nil, err
	}
	state, err := model.EncodeSelection(cat, sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSerialization, err)
	}

	rec, err := s.store.Append(ctx, model.NewSnapshot{
		State:        string(state),
		DerivedScore: overall.Percentage,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to append snapshot", "error", err)
		return nil, fmt.Errorf("%w: appending snapshot: %w", ErrPersistenceFailure, err)
	}

	logger.Annotate(ctx, attribute.Int64("snapshot.id", rec.ID), attribute.String("snapshot.status", overall.Status))
	ctx = logger.With(ctx, logger.Fields{SnapshotID: rec.ID})
	if overall.Complete() {
		if s.metrics != nil {
			s.metrics.LatestOverallPercent.Set(*overall.Percentage)
		}
		slog.InfoContext(ctx, "snapshot saved", "selected", overall.Selected, "percentage", *overall.Percentage)
	} else {
		slog.InfoContext(ctx, "snapshot saved", "selected", overall.Selected, "total", overall.Total)
	}
	return rec, nil
}

func (s *snapshotService) Latest(ctx context.Context) (*model.Snapshot, error) {
	rec, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%w: fetching latest snapshot: %w", ErrPersistenceFailure, err)
	}
	return rec, nil
}

func (s *snapshotService) LatestSelection(ctx context.Context) (model.Selection, *model.Snapshot, error) {
	rec, err := s.Latest(ctx)
	if err != nil {
		return model.Selection{}, nil, err
	}
	sel, err := rec.Selection()
	if err != nil {
		return model.Selection{}, rec, err
	}
	return sel, rec, nil
}

func (s *snapshotService) List(ctx context.Context) ([]model.Snapshot, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing snapshots: %w", ErrPersistenceFailure, err)
	}
	if recs == nil {
		recs = []model.Snapshot{}
	}
	return recs, nil
}

func (s *snapshotService) Clear(ctx context.Context) error {
	ctx = logger.With(ctx, logger.Fields{
		Backend:   s.store.Backend(),
		Component: "assessor.service.snapshot",
	})
	if err := s.store.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to clear snapshots", "error", err)
		return fmt.Errorf("%w: clearing snapshots: %w", ErrPersistenceFailure, err)
	}
	slog.WarnContext(ctx, "snapshot history cleared")
	return nil
}
