package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// Compile-time check.
var _ storage.ChannelResultStore = (*ChannelResultStore)(nil)

// ChannelResultStore is an in-memory implementation of storage.ChannelResultStore.
type ChannelResultStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ChannelResult // keyed by run_id/channel_id
}

// NewChannelResultStore creates a new in-memory channel result store.
func NewChannelResultStore() *ChannelResultStore {
	return &ChannelResultStore{
		data: make(map[string]*domain.ChannelResult),
	}
}

func resultKey(runID string, channelID int) string {
	return fmt.Sprintf("%s/%d", runID, channelID)
}

// Insert adds a new channel result. Returns ErrDuplicateKey if
// (run_id, channel_id) exists.
func (s *ChannelResultStore) Insert(_ context.Context, r *domain.ChannelResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := resultKey(r.RunID, r.ChannelID)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	resultCopy := *r
	s.data[key] = &resultCopy
	return nil
}

// GetByRunID retrieves all channel results for a run, ordered by channel_id ASC.
func (s *ChannelResultStore) GetByRunID(_ context.Context, runID string) ([]*domain.ChannelResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ChannelResult
	for _, r := range s.data {
		if r.RunID == runID {
			resultCopy := *r
			result = append(result, &resultCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ChannelID < result[j].ChannelID
	})

	return result, nil
}
