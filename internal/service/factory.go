package service

import (
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/metrics"
	"maturity.app/assessor/internal/store"
)

type Services struct {
	engine  *maturity.Engine
	store   store.SnapshotStore
	metrics *metrics.Metrics
}

// NewServices wires the services over one engine and one store. m may be nil
// when metrics are disabled.
func NewServices(engine *maturity.Engine, snapshots store.SnapshotStore, m *metrics.Metrics) *Services {
	return &Services{
		engine:  engine,
		store:   snapshots,
		metrics: m,
	}
}

func (s *Services) Engine() *maturity.Engine {
	return s.engine
}

func (s *Services) Snapshots() SnapshotService {
	return NewSnapshotService(s.engine, s.store, s.metrics)
}

func (s *Services) Trend() TrendService {
	return NewTrendService(s.engine, s.Snapshots(), s.metrics)
}

func (s *Services) Reports() ReportService {
	return NewReportService(s.engine, s.Snapshots())
}

func (s *Services) Assessment() AssessmentService {
	return NewAssessmentService(s.engine)
}
