package postgres

import (
	"context"
	"fmt"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// ChannelResultStore implements storage.ChannelResultStore using PostgreSQL.
// Only per-channel summary fields are persisted; the events themselves live
// in the events table.
type ChannelResultStore struct {
	pool *Pool
}

// NewChannelResultStore creates a new ChannelResultStore.
func NewChannelResultStore(pool *Pool) *ChannelResultStore {
	return &ChannelResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChannelResultStore = (*ChannelResultStore)(nil)

// Insert adds a new channel result. Returns ErrDuplicateKey if
// (run_id, channel_id) exists.
func (s *ChannelResultStore) Insert(ctx context.Context, r *domain.ChannelResult) error {
	query := `
		INSERT INTO channel_results (
			run_id, channel_id, io, sample_rate, event_count, status, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		r.RunID,
		r.ChannelID,
		r.Io,
		r.SampleRate,
		r.EventCount,
		string(r.Status),
		r.Reason,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert channel result: %w", err)
	}
	return nil
}

// GetByRunID retrieves all channel results for a run, ordered by channel_id ASC.
func (s *ChannelResultStore) GetByRunID(ctx context.Context, runID string) ([]*domain.ChannelResult, error) {
	query := `
		SELECT run_id, channel_id, io, sample_rate, event_count, status, reason
		FROM channel_results
		WHERE run_id = $1
		ORDER BY channel_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get channel results by run id: %w", err)
	}
	defer rows.Close()

	var result []*domain.ChannelResult
	for rows.Next() {
		var r domain.ChannelResult
		var status string
		err := rows.Scan(
			&r.RunID,
			&r.ChannelID,
			&r.Io,
			&r.SampleRate,
			&r.EventCount,
			&status,
			&r.Reason,
		)
		if err != nil {
			return nil, fmt.Errorf("scan channel result: %w", err)
		}
		r.Status = domain.ChannelStatus(status)
		result = append(result, &r)
	}
	return result, rows.Err()
}
