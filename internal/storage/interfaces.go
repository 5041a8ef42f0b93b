package storage

import (
	"context"

	"osbp-detect/internal/domain"
)

// RunStore provides access to detection_runs storage.
type RunStore interface {
	// Insert adds a completed run record. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.DetectionRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.DetectionRun, error)

	// GetAll retrieves all runs, ordered by started_at ASC.
	GetAll(ctx context.Context) ([]*domain.DetectionRun, error)
}

// EventStore provides access to events storage.
type EventStore interface {
	// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
	Insert(ctx context.Context, e *domain.Event) error

	// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, events []*domain.Event) error

	// GetByRunID retrieves all events for a run, ordered by (channel_id, start_index) ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.Event, error)

	// GetByRunChannel retrieves a channel's events for a run, ordered by start_index ASC.
	GetByRunChannel(ctx context.Context, runID string, channelID int) ([]*domain.Event, error)
}

// ChannelResultStore provides access to channel_results storage.
type ChannelResultStore interface {
	// Insert adds a new channel result. Returns ErrDuplicateKey if
	// (run_id, channel_id) exists.
	Insert(ctx context.Context, r *domain.ChannelResult) error

	// GetByRunID retrieves all channel results for a run, ordered by channel_id ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.ChannelResult, error)
}

// TraceStore provides access to raw trace sample storage. Traces are keyed
// by (source, channel_id) where source names the acquisition file the
// samples came from.
type TraceStore interface {
	// InsertTrace stores a channel's samples. Returns ErrDuplicateKey if
	// (source, channel_id) was already ingested.
	InsertTrace(ctx context.Context, source string, t *domain.Trace) error

	// GetTrace retrieves a channel's samples, ordered by sample index ASC.
	// Returns ErrNotFound if the channel was never ingested for the source.
	GetTrace(ctx context.Context, source string, channelID int) (*domain.Trace, error)

	// Channels lists ingested channel ids for a source, ascending.
	Channels(ctx context.Context, source string) ([]int, error)
}
