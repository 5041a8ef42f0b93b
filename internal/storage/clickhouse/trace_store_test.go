package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"osbp-detect/internal/domain"
	"osbp-detect/internal/storage"
)

func TestTraceStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTraceStore(conn)
	ctx := context.Background()

	trace := &domain.Trace{
		ChannelID:  3,
		SampleRate: 3012,
		Samples:    []float64{220.1, 219.8, 221.4, 90.2, 219.9},
	}

	err := store.InsertTrace(ctx, "acq_2025_03_14.osbp", trace)
	require.NoError(t, err)

	got, err := store.GetTrace(ctx, "acq_2025_03_14.osbp", 3)
	require.NoError(t, err)
	require.Equal(t, 3, got.ChannelID)
	require.Equal(t, 3012.0, got.SampleRate)
	require.Equal(t, trace.Samples, got.Samples)
}

func TestTraceStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTraceStore(conn)
	ctx := context.Background()

	trace := &domain.Trace{ChannelID: 3, SampleRate: 3012, Samples: []float64{1, 2}}

	require.NoError(t, store.InsertTrace(ctx, "acq.osbp", trace))

	err := store.InsertTrace(ctx, "acq.osbp", trace)
	require.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same channel under a different source is a distinct key.
	require.NoError(t, store.InsertTrace(ctx, "other.osbp", trace))
}

func TestTraceStore_NotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTraceStore(conn)

	_, err := store.GetTrace(context.Background(), "acq.osbp", 42)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTraceStore_Channels(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTraceStore(conn)
	ctx := context.Background()

	for _, id := range []int{9, 2, 5} {
		trace := &domain.Trace{ChannelID: id, SampleRate: 3012, Samples: []float64{1}}
		require.NoError(t, store.InsertTrace(ctx, "acq.osbp", trace))
	}

	ids, err := store.Channels(ctx, "acq.osbp")
	require.NoError(t, err)
	require.Equal(t, []int{2, 5, 9}, ids)
}

func TestTraceStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTraceStore(conn)
	ctx := context.Background()

	err := store.InsertTrace(ctx, "", &domain.Trace{ChannelID: 1, Samples: []float64{1}})
	require.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.InsertTrace(ctx, "acq.osbp", &domain.Trace{ChannelID: 1})
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}
