package tracesource

import (
	"context"
	"sort"
	"sync"

	"osbp-detect/internal/domain"
)

// Compile-time check.
var _ Source = (*MemorySource)(nil)

// MemorySource holds traces in memory. Used in tests and for small
// synthetic acquisitions.
type MemorySource struct {
	mu     sync.RWMutex
	traces map[int]*domain.Trace
	errs   map[int]error
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		traces: make(map[int]*domain.Trace),
		errs:   make(map[int]error),
	}
}

// Put adds or replaces a channel's trace.
func (s *MemorySource) Put(t *domain.Trace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces[t.ChannelID] = t
}

// FailChannel makes GetTrace return err for the given channel.
func (s *MemorySource) FailChannel(channelID int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[channelID] = err
}

func (s *MemorySource) GetTrace(_ context.Context, channelID int) (*domain.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.errs[channelID]; ok {
		return nil, err
	}
	t, ok := s.traces[channelID]
	if !ok {
		return nil, ErrChannelNotFound
	}
	return t, nil
}

func (s *MemorySource) Channels(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.traces)+len(s.errs))
	for id := range s.traces {
		ids = append(ids, id)
	}
	for id := range s.errs {
		if _, ok := s.traces[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *MemorySource) Close() error { return nil }
