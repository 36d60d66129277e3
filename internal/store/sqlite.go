package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"maturity.app/assessor/core/db"
	"maturity.app/assessor/internal/model"
)

const BackendSQLite = "sqlite"

// The first migration is the legacy tool's layout, so its existing
// model_state.db files upgrade in place.
//
//go:embed sqlite_migrations/*.sql
var sqliteMigrations embed.FS

// SQLiteStore keeps the history in a single-file database. AUTOINCREMENT
// guarantees keys are never reused, even after Clear.
type SQLiteStore struct {
	db   *sql.DB
	opts options
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" is
// accepted for tests.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// one writer keeps key assignment serialized and :memory: on a single connection
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite pragma %q: %w", p, err)
		}
	}
	migrations, err := fs.Sub(sqliteMigrations, "sqlite_migrations")
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.Migrate(ctx, goose.DialectSQLite3, conn, migrations); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: conn, opts: buildOptions(opts)}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, snap model.NewSnapshot) (*model.Snapshot, error) {
	rec := model.Snapshot{
		Timestamp:    model.FormatTimestamp(s.opts.now()),
		State:        snap.State,
		DerivedScore: copyScore(snap.DerivedScore),
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO model_states (timestamp, state, derived_score) VALUES (?, ?, ?) RETURNING id`,
		rec.Timestamp, rec.State, rec.DerivedScore,
	).Scan(&rec.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting snapshot: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, timestamp, state, derived_score FROM model_states ORDER BY id DESC LIMIT 1`)
	rec, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching latest snapshot: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, state, derived_score FROM model_states ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning clear: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM model_states`); err != nil {
		return fmt.Errorf("deleting snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Backend() string { return BackendSQLite }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row rowScanner) (model.Snapshot, error) {
	var (
		rec       model.Snapshot
		timestamp sql.NullString
		state     sql.NullString
		score     sql.NullFloat64
	)
	// legacy rows may carry NULL timestamp or state
	if err := row.Scan(&rec.ID, &timestamp, &state, &score); err != nil {
		return model.Snapshot{}, err
	}
	rec.Timestamp = timestamp.String
	rec.State = state.String
	if score.Valid {
		v := score.Float64
		rec.DerivedScore = &v
	}
	return rec, nil
}
