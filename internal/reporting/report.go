// Package reporting renders detection results into the result file set:
// three TSV files plus a markdown summary, written into a timestamped
// run directory.
package reporting

import (
	"context"
	"time"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// ToolName appears in the header block of every result file.
const ToolName = "osbp-detect v1.0"

// Report is the renderable form of one finished detection run.
type Report struct {
	GeneratedAt time.Time
	Run         *domain.DetectionRun

	// Channels ordered by channel id, events included.
	Channels []*domain.ChannelResult
}

// NewReport assembles a report directly from an in-memory run result.
func NewReport(run *domain.DetectionRun, channels []*domain.ChannelResult, generatedAt time.Time) *Report {
	return &Report{
		GeneratedAt: generatedAt,
		Run:         run,
		Channels:    channels,
	}
}

// LoadReport rebuilds a report for a stored run, re-attaching each
// channel's events from the event store.
func LoadReport(
	ctx context.Context,
	runID string,
	runStore storage.RunStore,
	resultStore storage.ChannelResultStore,
	eventStore storage.EventStore,
) (*Report, error) {
	run, err := runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	channels, err := resultStore.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		events, err := eventStore.GetByRunChannel(ctx, runID, ch.ChannelID)
		if err != nil {
			return nil, err
		}
		ch.Events = events
	}

	return &Report{
		GeneratedAt: time.Now().UTC(),
		Run:         run,
		Channels:    channels,
	}, nil
}
