// Package trend turns the snapshot history into a chartable time series.
// Scores are always recomputed from the stored selection with the current
// catalog and policy; the score stored at save time is carried along for audit
// only.
package trend

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"maturity.app/assessor/common/logger"
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
)

type SkipReason string

const (
	SkipUnparseable SkipReason = "unparseable"
	SkipInvalid     SkipReason = "invalid"
	SkipIncomplete  SkipReason = "incomplete"
)

type Point struct {
	SnapshotID   int64     `json:"snapshot_id"`
	Timestamp    string    `json:"timestamp"`
	Time         time.Time `json:"-"`
	Percentage   float64   `json:"percentage"`
	AverageLevel float64   `json:"average_level"`
	StoredScore  *float64  `json:"stored_score,omitempty"`
}

type Skipped struct {
	SnapshotID int64      `json:"snapshot_id"`
	Timestamp  string     `json:"timestamp"`
	Reason     SkipReason `json:"reason"`
	Error      string     `json:"error,omitempty"`
}

// Series is ordered by timestamp ascending, ties broken by snapshot key.
type Series struct {
	Policy  string    `json:"policy"`
	Points  []Point   `json:"points"`
	Skipped []Skipped `json:"skipped"`
}

// Render recomputes a score for every snapshot and sorts the result
// chronologically. A snapshot that cannot be parsed or scored is skipped and
// logged on its own; it never aborts the rest of the series.
func Render(ctx context.Context, engine *maturity.Engine, snapshots []model.Snapshot) Series {
	series := Series{
		Policy:  engine.Policy().Name(),
		Points:  make([]Point, 0, len(snapshots)),
		Skipped: []Skipped{},
	}

	for _, snap := range snapshots {
		point, skip := score(engine, snap)
		if skip != nil {
			logSkip(ctx, snap, *skip)
			series.Skipped = append(series.Skipped, *skip)
			continue
		}
		series.Points = append(series.Points, point)
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		a, b := series.Points[i], series.Points[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		return a.SnapshotID < b.SnapshotID
	})

	return series
}

func score(engine *maturity.Engine, snap model.Snapshot) (Point, *Skipped) {
	skip := func(reason SkipReason, err error) (Point, *Skipped) {
		s := &Skipped{SnapshotID: snap.ID, Timestamp: snap.Timestamp, Reason: reason}
		if err != nil {
			s.Error = err.Error()
		}
		return Point{}, s
	}

	ts, err := snap.Time()
	if err != nil {
		return skip(SkipUnparseable, err)
	}
	sel, err := snap.Selection()
	if err != nil {
		return skip(SkipUnparseable, err)
	}
	overall, err := engine.Overall(sel)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSelection) {
			return skip(SkipInvalid, err)
		}
		return skip(SkipUnparseable, err)
	}
	if !overall.Complete() {
		return skip(SkipIncomplete, nil)
	}

	return Point{
		SnapshotID:   snap.ID,
		Timestamp:    snap.Timestamp,
		Time:         ts,
		Percentage:   *overall.Percentage,
		AverageLevel: *overall.AverageLevel,
		StoredScore:  snap.DerivedScore,
	}, nil
}

func logSkip(ctx context.Context, snap model.Snapshot, s Skipped) {
	ctx = logger.With(ctx, logger.Fields{SnapshotID: snap.ID, Component: "assessor.trend"})
	if s.Reason == SkipIncomplete {
		slog.DebugContext(ctx, "trend skipped incomplete snapshot", "timestamp", snap.Timestamp)
		return
	}
	slog.WarnContext(ctx, "trend skipped snapshot",
		"reason", string(s.Reason),
		"error", s.Error,
		"state", logger.Clip(snap.State, 200),
	)
}
