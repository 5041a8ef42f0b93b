package clickhouse

import (
	"context"
	"fmt"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// TraceStore implements storage.TraceStore using ClickHouse. Channel
// metadata lives in trace_channels; samples go into trace_samples via the
// native batch interface. MergeTree does not enforce uniqueness, so
// duplicates are rejected with an explicit metadata check before insert.
type TraceStore struct {
	conn *Conn
}

// NewTraceStore creates a new TraceStore.
func NewTraceStore(conn *Conn) *TraceStore {
	return &TraceStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TraceStore = (*TraceStore)(nil)

// InsertTrace stores a channel's samples. Returns ErrDuplicateKey if
// (source, channel_id) was already ingested.
func (s *TraceStore) InsertTrace(ctx context.Context, source string, t *domain.Trace) error {
	if source == "" || t == nil || len(t.Samples) == 0 {
		return storage.ErrInvalidInput
	}

	exists, err := s.exists(ctx, source, t.ChannelID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	err = s.conn.Exec(ctx, `
		INSERT INTO trace_channels (source, channel_id, sample_rate, sample_count)
		VALUES (?, ?, ?, ?)
	`, source, int32(t.ChannelID), t.SampleRate, uint64(len(t.Samples)))
	if err != nil {
		return fmt.Errorf("insert channel metadata: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trace_samples (source, channel_id, sample_index, current_pa)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, v := range t.Samples {
		if err := batch.Append(source, int32(t.ChannelID), uint64(i), v); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetTrace retrieves a channel's samples, ordered by sample index ASC.
// Returns ErrNotFound if the channel was never ingested for the source.
func (s *TraceStore) GetTrace(ctx context.Context, source string, channelID int) (*domain.Trace, error) {
	var sampleRate float64
	var sampleCount uint64
	err := s.conn.QueryRow(ctx, `
		SELECT sample_rate, sample_count
		FROM trace_channels
		WHERE source = ? AND channel_id = ?
	`, source, int32(channelID)).Scan(&sampleRate, &sampleCount)
	if err != nil {
		// The native driver surfaces an empty result as a scan error.
		exists, existsErr := s.exists(ctx, source, channelID)
		if existsErr == nil && !exists {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get channel metadata: %w", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT current_pa
		FROM trace_samples
		WHERE source = ? AND channel_id = ?
		ORDER BY sample_index ASC
	`, source, int32(channelID))
	if err != nil {
		return nil, fmt.Errorf("get samples: %w", err)
	}
	defer rows.Close()

	samples := make([]float64, 0, sampleCount)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	return &domain.Trace{
		ChannelID:  channelID,
		SampleRate: sampleRate,
		Samples:    samples,
	}, nil
}

// Channels lists ingested channel ids for a source, ascending.
func (s *TraceStore) Channels(ctx context.Context, source string) ([]int, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT channel_id
		FROM trace_channels
		WHERE source = ?
		ORDER BY channel_id ASC
	`, source)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan channel id: %w", err)
		}
		ids = append(ids, int(id))
	}
	return ids, rows.Err()
}

func (s *TraceStore) exists(ctx context.Context, source string, channelID int) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM trace_channels
		WHERE source = ? AND channel_id = ?
	`, source, int32(channelID)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
