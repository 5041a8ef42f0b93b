package tracesource

import (
	"context"
	"errors"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// Compile-time check.
var _ Source = (*StoreSource)(nil)

// StoreSource adapts an ingested trace store to the Source interface,
// scoped to a single acquisition source name.
type StoreSource struct {
	store  storage.TraceStore
	source string
}

// NewStoreSource wraps store, reading traces ingested under source.
func NewStoreSource(store storage.TraceStore, source string) *StoreSource {
	return &StoreSource{store: store, source: source}
}

func (s *StoreSource) GetTrace(ctx context.Context, channelID int) (*domain.Trace, error) {
	t, err := s.store.GetTrace(ctx, s.source, channelID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrChannelNotFound
	}
	return t, err
}

func (s *StoreSource) Channels(ctx context.Context) ([]int, error) {
	return s.store.Channels(ctx, s.source)
}

func (s *StoreSource) Close() error { return nil }
