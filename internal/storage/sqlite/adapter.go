package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kurihiro0119/ops-task-report/internal/domain"
	apperrors "github.com/kurihiro0119/ops-task-report/internal/errors"
	"github.com/kurihiro0119/ops-task-report/internal/storage"
)

// sqliteStorage implements the Storage interface for SQLite
type sqliteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (storage.Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &sqliteStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		created_after INTEGER NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0,
		output_path TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		network TEXT NOT NULL,
		chain_id TEXT NOT NULL,
		task_id TEXT NOT NULL,
		created_at_cest TEXT NOT NULL,
		task_name TEXT NOT NULL,
		ops_url TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_records_network ON records(network);
	CREATE INDEX IF NOT EXISTS idx_records_task_id ON records(task_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun inserts or replaces a run
func (s *sqliteStorage) SaveRun(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT OR REPLACE INTO runs (id, started_at, finished_at, created_after, record_count, output_path, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	var finished interface{}
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt
	}
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		finished,
		run.CreatedAfter,
		run.RecordCount,
		run.OutputPath,
		string(run.Status),
	)
	return err
}

// GetRun retrieves a run by id
func (s *sqliteStorage) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, created_after, record_count, output_path, status
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("run %s", id))
	}
	return run, err
}

// ListRuns returns the most recent runs, newest first
func (s *sqliteStorage) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, created_after, record_count, output_path, status
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveRecords replaces the records of a run
func (s *sqliteStorage) SaveRecords(ctx context.Context, runID string, records []*domain.ArchivedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE run_id = ?`, runID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (run_id, position, network, chain_id, task_id, created_at_cest, task_name, ops_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			runID,
			r.Position,
			r.Network,
			r.ChainID,
			r.TaskID,
			r.CreatedAtCEST,
			r.TaskName,
			r.OpsURL,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRecords returns a run's records in collection order
func (s *sqliteStorage) GetRecords(ctx context.Context, runID string) ([]*domain.ArchivedRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, network, chain_id, task_id, created_at_cest, task_name, ops_url
		FROM records
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ArchivedRecord
	for rows.Next() {
		var r domain.ArchivedRecord
		if err := rows.Scan(
			&r.RunID,
			&r.Position,
			&r.Network,
			&r.ChainID,
			&r.TaskID,
			&r.CreatedAtCEST,
			&r.TaskName,
			&r.OpsURL,
		); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// Close closes the database connection
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*domain.Run, error) {
	var run domain.Run
	var status string
	var finished sql.NullTime
	if err := sc.Scan(
		&run.ID,
		&run.StartedAt,
		&finished,
		&run.CreatedAfter,
		&run.RecordCount,
		&run.OutputPath,
		&status,
	); err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	run.Status = domain.RunStatus(status)
	return &run, nil
}
