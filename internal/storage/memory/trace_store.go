package memory

import (
	"context"
	"sort"
	"sync"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// Compile-time check.
var _ storage.TraceStore = (*TraceStore)(nil)

// TraceStore is an in-memory implementation of storage.TraceStore.
type TraceStore struct {
	mu   sync.RWMutex
	data map[string]map[int]*domain.Trace // source -> channel_id -> trace
}

// NewTraceStore creates a new in-memory trace store.
func NewTraceStore() *TraceStore {
	return &TraceStore{
		data: make(map[string]map[int]*domain.Trace),
	}
}

func copyTrace(t *domain.Trace) *domain.Trace {
	return &domain.Trace{
		ChannelID:  t.ChannelID,
		SampleRate: t.SampleRate,
		Samples:    append([]float64(nil), t.Samples...),
	}
}

// InsertTrace stores a channel's samples. Returns ErrDuplicateKey if
// (source, channel_id) was already ingested.
func (s *TraceStore) InsertTrace(_ context.Context, source string, t *domain.Trace) error {
	if source == "" || t == nil || len(t.Samples) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	channels, ok := s.data[source]
	if !ok {
		channels = make(map[int]*domain.Trace)
		s.data[source] = channels
	}
	if _, exists := channels[t.ChannelID]; exists {
		return storage.ErrDuplicateKey
	}

	channels[t.ChannelID] = copyTrace(t)
	return nil
}

// GetTrace retrieves a channel's samples. Returns ErrNotFound if the
// channel was never ingested for the source.
func (s *TraceStore) GetTrace(_ context.Context, source string, channelID int) (*domain.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[source][channelID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyTrace(t), nil
}

// Channels lists ingested channel ids for a source, ascending.
func (s *TraceStore) Channels(_ context.Context, source string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.data[source]))
	for id := range s.data[source] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
