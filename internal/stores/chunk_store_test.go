package stores

import (
	"context"
	"errors"
	"math"
	"testing"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/filestorages"
	"biosignal-pipeline/internal/shared/filestorages/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestChunkStore(t *testing.T) ChunkStore {
	storage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return NewChunkStore(storage)
}

func makeChunk(sessionID string, seq int, kind models.ChunkKind, start, end int64) *models.DataChunk {
	sampleCount := int(end-start) + 1
	timestamps := make([]int64, sampleCount)
	channels := make([][]float64, 2)
	for i := range channels {
		channels[i] = make([]float64, sampleCount)
	}
	for s := 0; s < sampleCount; s++ {
		timestamps[s] = start + int64(s)
		channels[0][s] = float64(seq*1000 + s)
		channels[1][s] = float64(-(seq*1000 + s))
	}
	return &models.DataChunk{
		SessionID:     sessionID,
		SequenceIndex: seq,
		StartTime:     start,
		EndTime:       end,
		SampleCount:   sampleCount,
		Timestamps:    timestamps,
		Channels:      channels,
		Stats:         []models.ChannelStats{{}, {}},
		Kind:          kind,
		ArrivalOrder:  seq,
	}
}

func TestChunkStore_Insert_And_ScanProvisional_ArrivalOrder(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	// Insert out of arrival order; scan must return arrival order
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 2, models.ChunkProvisional, 200, 299)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 1, models.ChunkProvisional, 100, 199)))

	chunks, err := store.ScanProvisional(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ArrivalOrder)
		assert.Equal(t, models.ChunkProvisional, chunk.Kind)
	}
}

func TestChunkStore_Insert_DuplicateSequence(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))

	err := store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 100, 199))
	assert.ErrorIs(t, err, ErrChunkAlreadyExists)

	// Same sequence index for a different session does not collide
	require.NoError(t, store.Insert(ctx, makeChunk("sess-2", 0, models.ChunkProvisional, 0, 99)))

	// Same index with consolidated kind does not collide either
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 99)))
}

func TestChunkStore_Insert_RejectsInvalidChunk(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	chunk := makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)
	chunk.Timestamps = chunk.Timestamps[:10]

	err := store.Insert(ctx, chunk)
	assert.Error(t, err)
}

func TestChunkStore_StorageFailuresPropagate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	storage := mocks.NewMockFileStorage(ctrl)
	store := NewChunkStore(storage)
	ctx := context.Background()

	storageErr := errors.New("disk full")

	storage.EXPECT().Put(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, storageErr)
	err := store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99))
	assert.ErrorIs(t, err, storageErr)

	storage.EXPECT().List(ctx, gomock.Any()).Return(nil, storageErr).Times(3)
	_, err = store.ScanProvisional(ctx, "sess-1")
	assert.ErrorIs(t, err, storageErr)
	_, err = store.CountProvisional(ctx, "sess-1")
	assert.ErrorIs(t, err, storageErr)
	_, err = store.DeleteProvisional(ctx, "sess-1")
	assert.ErrorIs(t, err, storageErr)
}

func TestChunkStore_CountProvisional(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	count, err := store.CountProvisional(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 1, models.ChunkProvisional, 100, 199)))

	count, err = store.CountProvisional(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkStore_ScanTimeRange_Intersection(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 1, models.ChunkProvisional, 100, 199)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 2, models.ChunkProvisional, 200, 299)))

	// Range spanning only the middle chunk
	chunks, err := store.ScanTimeRange(ctx, "sess-1", 120, 180, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].SequenceIndex)

	// Unbounded range returns all in sequence order
	chunks, err = store.ScanTimeRange(ctx, "sess-1", math.MinInt64, math.MaxInt64, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].SequenceIndex)
	assert.Equal(t, 1, chunks[1].SequenceIndex)
	assert.Equal(t, 2, chunks[2].SequenceIndex)

	// Non-intersecting range returns nothing
	chunks, err = store.ScanTimeRange(ctx, "sess-1", 1000, 2000, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkStore_ScanTimeRange_ConsolidatedSupersedesProvisional(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	// Mid-finalization state: the merged copy and its sources coexist.
	// The scan must serve each stored sample exactly once.
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 1, models.ChunkProvisional, 100, 199)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 199)))

	chunks, err := store.ScanTimeRange(ctx, "sess-1", math.MinInt64, math.MaxInt64, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, models.ChunkConsolidated, chunks[0].Kind)

	served := 0
	for _, chunk := range chunks {
		served += chunk.SampleCount
	}
	assert.Equal(t, 200, served)
}

func TestChunkStore_GetConsolidated(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	_, err := store.GetConsolidated(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrChunkNotFound)

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 199)))

	chunk, err := store.GetConsolidated(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.ChunkConsolidated, chunk.Kind)
	assert.Equal(t, 200, chunk.SampleCount)
}

func TestChunkStore_Replace_OverwritesExisting(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 99)))
	require.NoError(t, store.Replace(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 199)))

	chunk, err := store.GetConsolidated(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 200, chunk.SampleCount)

	// Replace also creates when the slot is empty
	require.NoError(t, store.Replace(ctx, makeChunk("sess-2", 0, models.ChunkConsolidated, 0, 99)))
	chunk, err = store.GetConsolidated(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, 100, chunk.SampleCount)
}

func TestChunkStore_ScanTimeRange_ChannelProjection(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))

	chunks, err := store.ScanTimeRange(ctx, "sess-1", 0, 99, []int{1})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	// Positional alignment preserved: channel 0 dropped, channel 1 kept
	require.Len(t, chunks[0].Channels, 2)
	assert.Nil(t, chunks[0].Channels[0])
	assert.Len(t, chunks[0].Channels[1], 100)
}

func TestChunkStore_DeleteProvisional(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 1, models.ChunkProvisional, 100, 199)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 199)))

	deleted, err := store.DeleteProvisional(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	// Provisional gone, consolidated untouched
	provisional, err := store.ScanProvisional(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, provisional)

	all, err := store.ScanTimeRange(ctx, "sess-1", math.MinInt64, math.MaxInt64, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ChunkConsolidated, all[0].Kind)
}

func TestChunkStore_DeleteAll(t *testing.T) {
	t.Parallel()

	store := newTestChunkStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkProvisional, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-1", 0, models.ChunkConsolidated, 0, 99)))
	require.NoError(t, store.Insert(ctx, makeChunk("sess-2", 0, models.ChunkProvisional, 0, 99)))

	deleted, err := store.DeleteAll(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	all, err := store.ScanTimeRange(ctx, "sess-1", math.MinInt64, math.MaxInt64, nil)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Other sessions unaffected
	other, err := store.ScanProvisional(ctx, "sess-2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
