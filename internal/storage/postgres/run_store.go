package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a completed run record. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *domain.DetectionRun) error {
	query := `
		INSERT INTO detection_runs (
			run_id, source, started_at, finished_at,
			channels_total, channels_clean, channels_skipped, channels_failed,
			events_total, min_irio, strict_irio, min_duration, max_duration, max_events_clean
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.Source,
		r.StartedAt,
		r.FinishedAt,
		r.ChannelsTotal,
		r.ChannelsClean,
		r.ChannelsSkipped,
		r.ChannelsFailed,
		r.EventsTotal,
		r.MinIrIo,
		r.StrictIrIo,
		r.MinDuration,
		r.MaxDuration,
		r.MaxEventsClean,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.DetectionRun, error) {
	query := `
		SELECT run_id, source, started_at, finished_at,
			channels_total, channels_clean, channels_skipped, channels_failed,
			events_total, min_irio, strict_irio, min_duration, max_duration, max_events_clean
		FROM detection_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return r, nil
}

// GetAll retrieves all runs, ordered by started_at ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.DetectionRun, error) {
	query := `
		SELECT run_id, source, started_at, finished_at,
			channels_total, channels_clean, channels_skipped, channels_failed,
			events_total, min_irio, strict_irio, min_duration, max_duration, max_events_clean
		FROM detection_runs
		ORDER BY started_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	var result []*domain.DetectionRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// scanRun scans a single row into a DetectionRun.
func scanRun(row pgx.Row) (*domain.DetectionRun, error) {
	var r domain.DetectionRun
	err := row.Scan(
		&r.RunID,
		&r.Source,
		&r.StartedAt,
		&r.FinishedAt,
		&r.ChannelsTotal,
		&r.ChannelsClean,
		&r.ChannelsSkipped,
		&r.ChannelsFailed,
		&r.EventsTotal,
		&r.MinIrIo,
		&r.StrictIrIo,
		&r.MinDuration,
		&r.MaxDuration,
		&r.MaxEventsClean,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
