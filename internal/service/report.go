package service

import (
	"context"

	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/report"
)

type ReportService interface {
	// Latest builds the gap report for the most recent snapshot.
	// store.ErrNotFound when nothing has been saved.
	Latest(ctx context.Context, opts report.Options) (*report.Report, error)
}

type reportService struct {
	engine    *maturity.Engine
	snapshots SnapshotService
}

func NewReportService(engine *maturity.Engine, snapshots SnapshotService) ReportService {
	return &reportService{engine: engine, snapshots: snapshots}
}

func (s *reportService) Latest(ctx context.Context, opts report.Options) (*report.Report, error) {
	rec, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return report.Build(s.engine, *rec, opts)
}
