package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/voter/internal/samples"
)

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type pendingSample struct {
	sweep int
	value float64
}

// SQLiteRunStore implements RunStore on a SQLite database.
// Samples are buffered per run and written SampleBatch at a time.
type SQLiteRunStore struct {
	mu      sync.Mutex
	db      *sql.DB
	path    string
	pending map[string][]pendingSample
	now     func() time.Time
}

// Open opens or creates the run index at path.
func Open(path string) (*SQLiteRunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{
		db:      db,
		path:    path,
		pending: make(map[string][]pendingSample),
		now:     time.Now,
	}, nil
}

// Path returns the database file path.
func (s *SQLiteRunStore) Path() string {
	return s.path
}

// CreateRun inserts a new run row with a fresh UUID.
func (s *SQLiteRunStore) CreateRun(ctx context.Context, params RunParams) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := Run{
		ID:        uuid.New().String(),
		Params:    params,
		StartedAt: s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, rows, cols, initial_order, stubborn, sweeps, seed, output_dir, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, params.Rows, params.Cols, params.InitialOrder, params.Stubborn, params.Sweeps,
		strconv.FormatUint(params.Seed, 10), params.OutputDir, run.StartedAt.Format(timeLayout))
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}
	return run, nil
}

// RecordSample buffers a sample and writes the buffer once it reaches
// SampleBatch entries.
func (s *SQLiteRunStore) RecordSample(ctx context.Context, runID string, sweep int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[runID] = append(s.pending[runID], pendingSample{sweep: sweep, value: value})
	if len(s.pending[runID]) < SampleBatch {
		return nil
	}
	return s.flushLocked(ctx, runID)
}

// Flush writes any buffered samples of runID.
func (s *SQLiteRunStore) Flush(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx, runID)
}

func (s *SQLiteRunStore) flushLocked(ctx context.Context, runID string) error {
	batch := s.pending[runID]
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (run_id, sweep, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range batch {
		if _, err := stmt.ExecContext(ctx, runID, p.sweep, p.value); err != nil {
			return fmt.Errorf("failed to insert sample %d of run %s: %w", p.sweep, runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit samples: %w", err)
	}
	delete(s.pending, runID)
	return nil
}

// FinishRun flushes buffered samples and stores the summary.
func (s *SQLiteRunStore) FinishRun(ctx context.Context, runID string, summary Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flushLocked(ctx, runID); err != nil {
		return err
	}

	var errValue sql.NullFloat64
	if summary.Error != nil {
		errValue = sql.NullFloat64{Float64: *summary.Error, Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, sweeps_completed = ?, final_order = ?, mean = ?, error = ?, interrupted = ?
		WHERE id = ?`,
		s.now().UTC().Format(timeLayout), summary.SweepsCompleted, summary.FinalOrder,
		summary.Mean, errValue, boolToInt(summary.Interrupted), runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `id, rows, cols, initial_order, stubborn, sweeps, seed, output_dir,
	started_at, finished_at, sweeps_completed, final_order, mean, error, interrupted`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (Run, error) {
	var (
		run         Run
		seed        string
		startedAt   string
		finishedAt  sql.NullString
		finalOrder  sql.NullFloat64
		mean        sql.NullFloat64
		errValue    sql.NullFloat64
		interrupted int
	)
	err := sc.Scan(&run.ID, &run.Params.Rows, &run.Params.Cols, &run.Params.InitialOrder,
		&run.Params.Stubborn, &run.Params.Sweeps, &seed, &run.Params.OutputDir,
		&startedAt, &finishedAt, &run.Summary.SweepsCompleted, &finalOrder, &mean, &errValue, &interrupted)
	if err != nil {
		return Run{}, err
	}

	if run.Params.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Run{}, fmt.Errorf("run %s has invalid seed %q: %w", run.ID, seed, err)
	}
	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return Run{}, fmt.Errorf("run %s has invalid start time: %w", run.ID, err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return Run{}, fmt.Errorf("run %s has invalid finish time: %w", run.ID, err)
		}
		run.FinishedAt = &t
	}
	run.Summary.FinalOrder = finalOrder.Float64
	run.Summary.Mean = mean.Float64
	if errValue.Valid {
		v := errValue.Float64
		run.Summary.Error = &v
	}
	run.Summary.Interrupted = interrupted != 0
	return run, nil
}

// GetRun returns the run with the given ID.
func (s *SQLiteRunStore) GetRun(ctx context.Context, runID string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *SQLiteRunStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LoadSamples returns the stored series of a run. Buffered samples that
// have not been flushed are not included.
func (s *SQLiteRunStore) LoadSamples(ctx context.Context, runID string) (*samples.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT value FROM samples WHERE run_id = ? ORDER BY sweep`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load samples: %w", err)
	}
	defer rows.Close()

	series := samples.New(0)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		series.Append(v)
	}
	return series, rows.Err()
}

// DeleteRun removes a run and its samples.
func (s *SQLiteRunStore) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, runID)
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// Close flushes every buffered run and closes the database.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	ctx := context.Background()
	for runID := range s.pending {
		if err := s.flushLocked(ctx, runID); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
