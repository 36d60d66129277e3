package service

import (
	"context"

	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/metrics"
	"maturity.app/assessor/internal/trend"
)

type TrendService interface {
	Series(ctx context.Context) (trend.Series, error)
}

type trendService struct {
	engine    *maturity.Engine
	snapshots SnapshotService
	metrics   *metrics.Metrics
}

func NewTrendService(engine *maturity.Engine, snapshots SnapshotService, m *metrics.Metrics) TrendService {
	return &trendService{engine: engine, snapshots: snapshots, metrics: m}
}

func (s *trendService) Series(ctx context.Context) (trend.Series, error) {
	recs, err := s.snapshots.List(ctx)
	if err != nil {
		return trend.Series{}, err
	}
	series := trend.Render(ctx, s.engine, recs)
	if s.metrics != nil {
		for _, sk := range series.Skipped {
			s.metrics.TrendSkippedTotal.WithLabelValues(string(sk.Reason)).Inc()
		}
	}
	return series, nil
}
