package store

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"maturity.app/assessor/common/logger"
	"maturity.app/assessor/internal/metrics"
	"maturity.app/assessor/internal/model"
)

// Instrumented wraps every call to the inner store in a span and records a
// count and a latency for it. ErrNotFound is an outcome, not a span error.
type Instrumented struct {
	inner   SnapshotStore
	metrics *metrics.Metrics
}

func NewInstrumented(inner SnapshotStore, m *metrics.Metrics) *Instrumented {
	return &Instrumented{inner: inner, metrics: m}
}

func (s *Instrumented) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	var rec *model.Snapshot
	err := s.track(ctx, "append", func(ctx context.Context) (err error) {
		rec, err = s.inner.Append(ctx, snap)
		return err
	})
	if err == nil {
		s.metrics.SnapshotsSavedTotal.Inc()
	}
	return rec, err
}

func (s *Instrumented) Latest(ctx context.Context) (*model.Snapshot, error) {
	var rec *model.Snapshot
	err := s.track(ctx, "latest", func(ctx context.Context) (err error) {
		rec, err = s.inner.Latest(ctx)
		return err
	})
	return rec, err
}

func (s *Instrumented) List(ctx context.Context) ([]model.Snapshot, error) {
	var recs []model.Snapshot
	err := s.track(ctx, "list", func(ctx context.Context) (err error) {
		recs, err = s.inner.List(ctx)
		if err == nil {
			logger.Annotate(ctx, attribute.Int("store.records", len(recs)))
		}
		return err
	})
	return recs, err
}

func (s *Instrumented) Clear(ctx context.Context) error {
	return s.track(ctx, "clear", s.inner.Clear)
}

func (s *Instrumented) Backend() string { return s.inner.Backend() }

func (s *Instrumented) Close() error { return s.inner.Close() }

func (s *Instrumented) track(ctx context.Context, op string, fn func(context.Context) error) error {
	backend := s.inner.Backend()
	ctx, end := logger.Span(ctx, "store."+op, attribute.String("store.backend", backend))
	start := time.Now()

	err := fn(ctx)

	outcome := "ok"
	spanErr := err
	switch {
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
		spanErr = nil
	case err != nil:
		outcome = "error"
	}
	end(&spanErr)

	s.metrics.StoreOperationsTotal.WithLabelValues(backend, op, outcome).Inc()
	s.metrics.StoreOperationDuration.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	return err
}
