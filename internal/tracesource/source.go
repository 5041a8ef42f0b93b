// Package tracesource provides read access to per-channel current traces,
// either from a bulk acquisition file on disk or from an ingested trace store.
package tracesource

import (
	"context"
	"errors"

	"osbp-detect/internal/domain"
)

var (
	// ErrChannelNotFound is returned when a requested channel does not
	// exist in the source.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrCorruptFile is returned when a bulk file fails structural checks.
	ErrCorruptFile = errors.New("corrupt bulk file")
)

// Source yields calibrated traces, one per channel, in picoamps.
type Source interface {
	// GetTrace reads the full trace for a channel. Returns
	// ErrChannelNotFound if the channel is absent.
	GetTrace(ctx context.Context, channelID int) (*domain.Trace, error)

	// Channels lists available channel ids, ascending.
	Channels(ctx context.Context) ([]int, error)

	// Close releases underlying resources.
	Close() error
}
