package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"maturity.app/assessor/common/id"
	"maturity.app/assessor/core/db"
	"maturity.app/assessor/core/db/sqlc"
	"maturity.app/assessor/internal/model"
)

const BackendPostgres = "postgres"

// PostgresStore runs the generated model_states queries over a pgx pool.
// Keys are snowflake IDs.
type PostgresStore struct {
	db   *db.DB
	opts options
}

func NewPostgresStore(database *db.DB, opts ...Option) *PostgresStore {
	return &PostgresStore{db: database, opts: buildOptions(opts)}
}

func (s *PostgresStore) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	row, err := s.db.Queries().InsertModelState(ctx, sqlc.InsertModelStateParams{
		ID:           id.New(),
		Timestamp:    model.FormatTimestamp(s.opts.now()),
		State:        snap.State,
		DerivedScore: snap.DerivedScore,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting snapshot: %w", err)
	}
	rec := toModelSnapshot(row)
	return &rec, nil
}

func (s *PostgresStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	row, err := s.db.Queries().GetLatestModelState(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching latest snapshot: %w", err)
	}
	rec := toModelSnapshot(row)
	return &rec, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Snapshot, error) {
	rows, err := s.db.Queries().ListModelStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	out := make([]model.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, toModelSnapshot(row))
	}
	return out, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	return s.db.InTx(ctx, func(q *sqlc.Queries) error {
		if _, err := q.DeleteAllModelStates(ctx); err != nil {
			return fmt.Errorf("deleting snapshots: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Backend() string { return BackendPostgres }

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func toModelSnapshot(row sqlc.ModelState) model.Snapshot {
	return model.Snapshot{
		ID:           row.ID,
		Timestamp:    row.Timestamp,
		State:        row.State,
		DerivedScore: row.DerivedScore,
	}
}
