package memory

import (
	"context"
	"errors"
	"testing"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

func sampleResult(runID string, channelID int, status domain.ChannelStatus) *domain.ChannelResult {
	return &domain.ChannelResult{
		RunID:      runID,
		ChannelID:  channelID,
		Io:         224.8,
		SampleRate: 3012,
		EventCount: 17,
		Status:     status,
	}
}

func TestChannelResultStore_InsertAndGet(t *testing.T) {
	store := NewChannelResultStore()
	ctx := context.Background()

	r := sampleResult("run-1", 3, domain.ChannelClean)
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(got))
	}
	if got[0].ChannelID != 3 || got[0].Status != domain.ChannelClean {
		t.Errorf("Result mismatch: %+v", got[0])
	}
}

func TestChannelResultStore_DuplicateKey(t *testing.T) {
	store := NewChannelResultStore()
	ctx := context.Background()

	r := sampleResult("run-1", 3, domain.ChannelClean)
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, r); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	// Same channel in another run is a distinct key.
	other := sampleResult("run-2", 3, domain.ChannelSkipped)
	if err := store.Insert(ctx, other); err != nil {
		t.Errorf("Insert for second run failed: %v", err)
	}
}

func TestChannelResultStore_OrderedByChannel(t *testing.T) {
	store := NewChannelResultStore()
	ctx := context.Background()

	for _, id := range []int{9, 2, 5} {
		if err := store.Insert(ctx, sampleResult("run-1", id, domain.ChannelClean)); err != nil {
			t.Fatalf("Insert %d failed: %v", id, err)
		}
	}

	got, err := store.GetByRunID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByRunID failed: %v", err)
	}
	want := []int{2, 5, 9}
	for i, id := range want {
		if got[i].ChannelID != id {
			t.Errorf("results[%d] = channel %d, want %d", i, got[i].ChannelID, id)
		}
	}
}
