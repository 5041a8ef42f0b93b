package memory

import (
	"context"
	"sort"
	"sync"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

// Compile-time check.
var _ storage.EventStore = (*EventStore)(nil)

// EventStore is an in-memory implementation of storage.EventStore.
type EventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Event // keyed by event_id
}

// NewEventStore creates a new in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		data: make(map[string]*domain.Event),
	}
}

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *EventStore) Insert(_ context.Context, e *domain.Event) error {
	if e == nil || e.EventID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(e)
}

// InsertBulk adds multiple events atomically. Fails entire batch on any duplicate.
func (s *EventStore) InsertBulk(_ context.Context, events []*domain.Event) error {
	for _, e := range events {
		if e == nil || e.EventID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check all keys before inserting any
	for _, e := range events {
		if _, exists := s.data[e.EventID]; exists {
			return storage.ErrDuplicateKey
		}
	}
	for _, e := range events {
		if err := s.insertLocked(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *EventStore) insertLocked(e *domain.Event) error {
	if _, exists := s.data[e.EventID]; exists {
		return storage.ErrDuplicateKey
	}
	eventCopy := *e
	s.data[e.EventID] = &eventCopy
	return nil
}

// GetByRunID retrieves all events for a run, ordered by (channel_id, start_index) ASC.
func (s *EventStore) GetByRunID(_ context.Context, runID string) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Event
	for _, e := range s.data {
		if e.RunID == runID {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ChannelID != result[j].ChannelID {
			return result[i].ChannelID < result[j].ChannelID
		}
		return result[i].StartIndex < result[j].StartIndex
	})

	return result, nil
}

// GetByRunChannel retrieves a channel's events for a run, ordered by start_index ASC.
func (s *EventStore) GetByRunChannel(_ context.Context, runID string, channelID int) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Event
	for _, e := range s.data {
		if e.RunID == runID && e.ChannelID == channelID {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartIndex < result[j].StartIndex
	})

	return result, nil
}
