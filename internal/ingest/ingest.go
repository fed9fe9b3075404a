// Package ingest loads planning input CSVs into Postgres in tracked,
// batched runs. One Dataset per input file kind; the worker streams
// records and flushes multi-row inserts inside transactions.
package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Dataset maps one CSV input kind to its target table.
type Dataset interface {
	// Name is the unique identifier used in run tracking.
	Name() string

	// Table is the target database table.
	Table() string

	// Columns are the insert columns, in MapRecord output order.
	Columns() []string

	// Required lists the CSV columns that must be present.
	Required() []string

	// MapRecord converts one CSV record into insert values.
	MapRecord(header map[string]int, record []string) ([]interface{}, error)
}

// Config holds worker tuning for an ingest run.
type Config struct {
	BatchSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BatchSize: 500}
}

// Worker ingests one dataset file per Run call.
type Worker struct {
	db   *sql.DB
	cfg  Config
	repo *RunRepository
}

func NewWorker(db *sql.DB, cfg Config) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Worker{db: db, cfg: cfg, repo: NewRunRepository(db)}
}

// Run streams the file into the dataset's table. The run record is created
// up front and finalized with the row count or the failure message.
func (w *Worker) Run(ctx context.Context, ds Dataset, path string) (int, error) {
	run := &Run{
		DatasetName: ds.Name(),
		FilePath:    path,
		Status:      RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}
	if err := w.repo.CreateRun(ctx, run); err != nil {
		return 0, fmt.Errorf("create ingest run: %w", err)
	}

	rows, err := w.ingestFile(ctx, ds, path)
	if err != nil {
		w.finishRun(ctx, run, rows, err)
		return rows, err
	}

	w.finishRun(ctx, run, rows, nil)
	log.Info().
		Str("dataset", ds.Name()).
		Str("file", path).
		Int("rows", rows).
		Msg("ingest complete")
	return rows, nil
}

func (w *Worker) finishRun(ctx context.Context, run *Run, rows int, runErr error) {
	run.TotalRows = rows
	now := time.Now().UTC()
	run.CompletedAt = &now
	if runErr != nil {
		run.Status = RunStatusFailed
		run.ErrorMessage = runErr.Error()
	} else {
		run.Status = RunStatusCompleted
	}
	if err := w.repo.UpdateRun(ctx, run); err != nil {
		log.Warn().Err(err).Str("dataset", run.DatasetName).Msg("could not finalize ingest run")
	}
}

func (w *Worker) ingestFile(ctx context.Context, ds Dataset, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rawHeader, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header of %s: %w", path, err)
	}

	header := make(map[string]int, len(rawHeader))
	for i, h := range rawHeader {
		header[normalizeHeader(h)] = i
	}
	for _, required := range ds.Required() {
		if _, ok := header[normalizeHeader(required)]; !ok {
			return 0, fmt.Errorf("%s: missing column %q", ds.Name(), required)
		}
	}

	var (
		batch [][]interface{}
		total int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read %s: %w", path, err)
		}

		values, err := ds.MapRecord(header, record)
		if err != nil {
			return total, fmt.Errorf("%s row %d: %w", ds.Name(), total+1, err)
		}

		batch = append(batch, values)
		if len(batch) >= w.cfg.BatchSize {
			if err := w.flush(ctx, ds, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := w.flush(ctx, ds, batch); err != nil {
			return total, err
		}
		total += len(batch)
	}

	return total, nil
}

func (w *Worker) flush(ctx context.Context, ds Dataset, batch [][]interface{}) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest batch: %w", err)
	}

	query, args := buildInsert(ds.Table(), ds.Columns(), batch)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback ingest batch")
		}
		return fmt.Errorf("insert into %s: %w", ds.Table(), err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest batch: %w", err)
	}
	return nil
}

func buildInsert(table string, columns []string, batch [][]interface{}) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(batch)*len(columns))
	for i, row := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+j+1)
		}
		sb.WriteString(")")
		args = append(args, row...)
	}

	return sb.String(), args
}

var headerSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeHeader(name string) string {
	return headerSanitizer.Replace(strings.TrimSpace(strings.ToLower(name)))
}
