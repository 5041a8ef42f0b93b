package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

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
		Reason:     "",
	}
}

func TestChannelResultStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChannelResultStore(pool)
	ctx := context.Background()

	r := sampleResult("run-1", 3, domain.ChannelClean)
	require.NoError(t, store.Insert(ctx, r))

	got, err := store.GetByRunID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 3, got[0].ChannelID)
	require.Equal(t, domain.ChannelClean, got[0].Status)
	require.Equal(t, 224.8, got[0].Io)
}

func TestChannelResultStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChannelResultStore(pool)
	ctx := context.Background()

	r := sampleResult("run-1", 3, domain.ChannelClean)
	require.NoError(t, store.Insert(ctx, r))

	err := store.Insert(ctx, r)
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same channel in another run is a distinct key.
	require.NoError(t, store.Insert(ctx, sampleResult("run-2", 3, domain.ChannelSkipped)))
}

func TestChannelResultStore_OrderedByChannel(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewChannelResultStore(pool)
	ctx := context.Background()

	statuses := map[int]domain.ChannelStatus{
		9: domain.ChannelFailed,
		2: domain.ChannelClean,
		5: domain.ChannelSkipped,
	}
	for id, status := range statuses {
		r := sampleResult("run-1", id, status)
		if status == domain.ChannelFailed {
			r.Reason = "read trace: device dropout"
		}
		require.NoError(t, store.Insert(ctx, r))
	}

	got, err := store.GetByRunID(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int{2, 5, 9}, []int{got[0].ChannelID, got[1].ChannelID, got[2].ChannelID})
	require.Equal(t, "read trace: device dropout", got[2].Reason)
}
