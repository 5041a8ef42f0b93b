package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// EventStore implements storage.EventStore using PostgreSQL.
type EventStore struct {
	pool *Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.EventStore = (*EventStore)(nil)

const insertEventQuery = `
	INSERT INTO events (
		event_id, run_id, channel_id, start_index, end_index,
		start_sec, end_sec, duration_samples, duration_sec,
		ir, io, ratio
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

const selectEventColumns = `
	SELECT event_id, run_id, channel_id, start_index, end_index,
		start_sec, end_sec, duration_samples, duration_sec,
		ir, io, ratio
	FROM events
`

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *EventStore) Insert(ctx context.Context, e *domain.Event) error {
	_, err := s.pool.Exec(ctx, insertEventQuery,
		e.EventID,
		e.RunID,
		e.ChannelID,
		e.StartIndex,
		e.EndIndex,
		e.StartSec,
		e.EndSec,
		e.DurationSamples,
		e.DurationSec,
		e.Ir,
		e.Io,
		e.Ratio,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *EventStore) InsertBulk(ctx context.Context, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		_, err := tx.Exec(ctx, insertEventQuery,
			e.EventID,
			e.RunID,
			e.ChannelID,
			e.StartIndex,
			e.EndIndex,
			e.StartSec,
			e.EndSec,
			e.DurationSamples,
			e.DurationSec,
			e.Ir,
			e.Io,
			e.Ratio,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert event in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRunID retrieves all events for a run, ordered by (channel_id, start_index) ASC.
func (s *EventStore) GetByRunID(ctx context.Context, runID string) ([]*domain.Event, error) {
	query := selectEventColumns + `
		WHERE run_id = $1
		ORDER BY channel_id ASC, start_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get events by run id: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetByRunChannel retrieves a channel's events for a run, ordered by start_index ASC.
func (s *EventStore) GetByRunChannel(ctx context.Context, runID string, channelID int) ([]*domain.Event, error) {
	query := selectEventColumns + `
		WHERE run_id = $1 AND channel_id = $2
		ORDER BY start_index ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, channelID)
	if err != nil {
		return nil, fmt.Errorf("get events by run channel: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// scanEvents scans all rows into Events.
func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	var result []*domain.Event
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.EventID,
			&e.RunID,
			&e.ChannelID,
			&e.StartIndex,
			&e.EndIndex,
			&e.StartSec,
			&e.EndSec,
			&e.DurationSamples,
			&e.DurationSec,
			&e.Ir,
			&e.Io,
			&e.Ratio,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}
