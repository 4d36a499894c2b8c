package ingestors_test

import (
	"context"
	"testing"

	"biosignal-pipeline/internal/ingestors"
	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/configs"
	"biosignal-pipeline/internal/shared/svcerrors"
	"biosignal-pipeline/internal/stores"
	storemocks "biosignal-pipeline/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testIngestionConfig() configs.IngestionConfig {
	return configs.IngestionConfig{
		ChannelCount:        4,
		MaxChunkSamples:     1000,
		BoundaryToleranceMs: 10,
	}
}

func testSession() *models.Session {
	return &models.Session{
		SessionID:    "session1",
		UserID:       "user1",
		DeviceID:     "device1",
		DeviceType:   models.DeviceECG,
		SampleRate:   1000,
		ChannelCount: 4,
		Status:       models.SessionActive,
	}
}

func testBatch(sessionID string, count int, firstTS int64) *models.UploadBatch {
	samples := make([]*models.Sample, count)
	for i := range samples {
		samples[i] = &models.Sample{
			Timestamp: firstTS + int64(i),
			Values:    []float64{1, 2, 3, 4},
			SessionID: sessionID,
		}
	}
	return &models.UploadBatch{
		SessionID: sessionID,
		Samples:   samples,
		BatchInfo: models.BatchInfo{
			Size:      count,
			StartTime: firstTS,
			EndTime:   firstTS + int64(count-1),
		},
	}
}

func TestIngestBatch_ErrValidationFailed_EmptySamples(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 10, 1000)
	batch.Samples = nil

	result, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1000", svcErr.Code)
	assert.Equal(t, "invalid_argument", svcErr.Category)
	assert.Nil(t, result, "expected nil result on error")
}

func TestIngestBatch_ErrValidationFailed_TooManySamples(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 1001, 1000)

	_, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1000", svcErr.Code)
}

func TestIngestBatch_ErrValidationFailed_NonPositiveTimestamp(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 3, 1000)
	batch.Samples[1].Timestamp = 0

	_, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1000", svcErr.Code)
	assert.Equal(t, "invalid_argument", svcErr.Category)
}

func TestIngestBatch_ErrBatchIntegrity_DeclaredSizeMismatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 10, 1000)
	batch.BatchInfo.Size = 11

	_, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1001", svcErr.Code)
	assert.Equal(t, "invalid_argument", svcErr.Category)
}

func TestIngestBatch_ErrBatchIntegrity_BoundaryOutsideTolerance(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 10, 1000)
	batch.BatchInfo.StartTime = 1000 - 11

	_, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1001", svcErr.Code)
}

func TestIngestBatch_BoundaryWithinTolerance_Accepted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 10, 1000)
	batch.BatchInfo.StartTime = 1000 - 10
	batch.BatchInfo.EndTime = 1009 + 10

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(testSession(), nil)
	chunkStore.EXPECT().CountProvisional(gomock.Any(), "session1").Return(0, nil)
	chunkStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	sessionStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.NoError(t, err)
	assert.Equal(t, 10, result.ProcessedCount)
}

func TestIngestBatch_ErrBatchIntegrity_SampleSessionMismatch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	batch := testBatch("session1", 5, 1000)
	batch.Samples[2].SessionID = "session2"

	_, err := service.IngestBatch(context.Background(), "user1", "", batch)

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1001", svcErr.Code)
}

func TestIngestBatch_ErrSessionNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(nil, stores.ErrSessionNotFound)

	_, err := service.IngestBatch(context.Background(), "user1", "", testBatch("session1", 10, 1000))

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1002", svcErr.Code)
	assert.Equal(t, "not_found", svcErr.Category)
}

func TestIngestBatch_ErrSessionNotFound_WrongOwner(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(testSession(), nil)

	_, err := service.IngestBatch(context.Background(), "user2", "", testBatch("session1", 10, 1000))

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1002", svcErr.Code, "ownership failure must look like a missing session")
}

func TestIngestBatch_CompletedSession_DropsBatchWithoutError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	completed := testSession()
	completed.Status = models.SessionCompleted
	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(completed, nil)

	result, err := service.IngestBatch(context.Background(), "user1", "", testBatch("session1", 10, 1000))

	require.NoError(t, err, "late batch must not be an error")
	assert.Equal(t, 0, result.ProcessedCount)
	assert.Equal(t, models.SessionCompleted, result.SessionStatus)
}

func TestIngestBatch_ErrSessionNotActive(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	errored := testSession()
	errored.Status = models.SessionError
	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(errored, nil)

	_, err := service.IngestBatch(context.Background(), "user1", "", testBatch("session1", 10, 1000))

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1003", svcErr.Code)
	assert.Equal(t, "failed_precondition", svcErr.Category)
}

func TestIngestBatch_ErrDuplicateChunkIndex(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(testSession(), nil)
	chunkStore.EXPECT().CountProvisional(gomock.Any(), "session1").Return(3, nil)
	chunkStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(stores.ErrChunkAlreadyExists)

	_, err := service.IngestBatch(context.Background(), "user1", "", testBatch("session1", 10, 1000))

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "ING_1004", svcErr.Code)
	assert.Equal(t, "resource_conflict", svcErr.Category)
}

func TestIngestBatch_Success_BuildsProvisionalChunk(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(testSession(), nil)
	chunkStore.EXPECT().CountProvisional(gomock.Any(), "session1").Return(2, nil)

	var inserted *models.DataChunk
	chunkStore.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, chunk *models.DataChunk) error {
			inserted = chunk
			return nil
		})
	sessionStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	result, err := service.IngestBatch(context.Background(), "user1", "", testBatch("session1", 10, 1000))

	require.NoError(t, err)
	assert.Equal(t, 2, result.SequenceIndex)
	assert.Equal(t, 10, result.ProcessedCount)

	require.NotNil(t, inserted)
	assert.Equal(t, models.ChunkProvisional, inserted.Kind)
	assert.Equal(t, 2, inserted.SequenceIndex)
	assert.Equal(t, 2, inserted.ArrivalOrder)
	assert.Equal(t, int64(1000), inserted.StartTime)
	assert.Equal(t, int64(1009), inserted.EndTime)
	assert.Equal(t, 10, inserted.SampleCount)
	require.Len(t, inserted.Channels, 4)
	require.Len(t, inserted.Stats, 4)
	assert.Equal(t, 3.0, inserted.Stats[2].Avg, "channel 2 holds the third value of every sample")
	assert.NoError(t, inserted.Validate())
}

func TestIngestBatch_Success_UpdatesSessionMetadata(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(testSession(), nil)
	chunkStore.EXPECT().CountProvisional(gomock.Any(), "session1").Return(0, nil)
	chunkStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	var updated *models.Session
	sessionStore.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, session *models.Session) error {
			updated = session
			return nil
		})

	batch := testBatch("session1", 10, 1000)
	batch.DeviceInfo = models.DeviceInfo{Name: "HeartTrack Pro", Address: "AA:BB:CC:DD:EE:FF"}

	ua := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	_, err := service.IngestBatch(context.Background(), "user1", ua, batch)

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(10), updated.TotalSamples)
	assert.Equal(t, "HeartTrack Pro", updated.DeviceName)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", updated.DeviceAddr)
	assert.Equal(t, "Safari", updated.ClientApp)
}

func TestIngestBatch_SessionUpdateFailure_DoesNotFailIngestion(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sessionStore := storemocks.NewMockSessionStore(ctrl)
	chunkStore := storemocks.NewMockChunkStore(ctrl)
	service := ingestors.NewIngestionService(testIngestionConfig(), sessionStore, chunkStore)

	sessionStore.EXPECT().Get(gomock.Any(), "session1").Return(testSession(), nil)
	chunkStore.EXPECT().CountProvisional(gomock.Any(), "session1").Return(0, nil)
	chunkStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	sessionStore.EXPECT().Update(gomock.Any(), gomock.Any()).Return(assert.AnError)

	result, err := service.IngestBatch(context.Background(), "user1", "", testBatch("session1", 10, 1000))

	require.NoError(t, err, "session bookkeeping failure must not fail the ingest")
	assert.Equal(t, 10, result.ProcessedCount)
}
