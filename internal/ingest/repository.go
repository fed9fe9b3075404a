package ingest

import (
	"context"
	"database/sql"
	"time"
)

// RunStatus is the lifecycle state of an ingest run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one dataset ingest for auditability.
type Run struct {
	ID           int64
	DatasetName  string
	FilePath     string
	Status       RunStatus
	TotalRows    int
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// RunRepository tracks ingest runs in the database.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) CreateRun(ctx context.Context, run *Run) error {
	query := `
		INSERT INTO ingest_runs (
			dataset_name, file_path, status, total_rows, started_at
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return r.db.QueryRowContext(
		ctx, query,
		run.DatasetName, run.FilePath, run.Status, run.TotalRows, run.StartedAt,
	).Scan(&run.ID)
}

func (r *RunRepository) UpdateRun(ctx context.Context, run *Run) error {
	query := `
		UPDATE ingest_runs
		SET status = $1, total_rows = $2, completed_at = $3, error_message = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(
		ctx, query,
		run.Status, run.TotalRows, run.CompletedAt, nullIfEmpty(run.ErrorMessage), run.ID,
	)
	return err
}

func (r *RunRepository) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `
		SELECT id, dataset_name, file_path, status, total_rows,
		       started_at, completed_at, COALESCE(error_message, '')
		FROM ingest_runs
		WHERE id = $1
	`

	run := &Run{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.DatasetName, &run.FilePath, &run.Status,
		&run.TotalRows, &run.StartedAt, &run.CompletedAt, &run.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
