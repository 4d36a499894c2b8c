package sessions_test

import (
	"context"
	"testing"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/sessions"
	"biosignal-pipeline/internal/shared/configs"
	"biosignal-pipeline/internal/shared/filestorages"
	"biosignal-pipeline/internal/shared/svcerrors"
	"biosignal-pipeline/internal/stores"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	sessionStore stores.SessionStore
	chunkStore   stores.ChunkStore
	service      sessions.SessionService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	storage, err := filestorages.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	sessionStore := stores.NewSessionStore(storage)
	chunkStore := stores.NewChunkStore(storage)
	cfg := configs.IngestionConfig{ChannelCount: 10, MaxChunkSamples: 2000, BoundaryToleranceMs: 10}
	return &sessionFixture{
		sessionStore: sessionStore,
		chunkStore:   chunkStore,
		service:      sessions.NewSessionService(cfg, sessionStore, chunkStore),
	}
}

func TestCreateSession_AssignsIDAndDefaults(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)

	session, err := f.service.CreateSession(context.Background(), "user1", sessions.CreateSessionParams{
		DeviceID:   "device1",
		DeviceType: "ecg",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID, "expected a generated session ID")
	assert.Equal(t, "user1", session.UserID)
	assert.Equal(t, models.DeviceECG, session.DeviceType)
	assert.Equal(t, float64(1000), session.SampleRate)
	assert.Equal(t, 10, session.ChannelCount)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.False(t, session.CreatedAt.IsZero())
}

func TestCreateSession_ClientSuppliedID(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)

	session, err := f.service.CreateSession(context.Background(), "user1", sessions.CreateSessionParams{
		SessionID: "session1",
		DeviceID:  "device1",
	})

	require.NoError(t, err)
	assert.Equal(t, "session1", session.SessionID)

	stored, err := f.sessionStore.Get(context.Background(), "session1")
	require.NoError(t, err)
	assert.Equal(t, "user1", stored.UserID)
}

func TestCreateSession_UnknownDeviceType_Accepted(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)

	session, err := f.service.CreateSession(context.Background(), "user1", sessions.CreateSessionParams{
		DeviceID:   "device1",
		DeviceType: "thermometer",
	})

	require.NoError(t, err, "unrecognized device types record data without a filter band")
	assert.Equal(t, models.DeviceUnknown, session.DeviceType)
}

func TestCreateSession_ErrValidationFailed_MissingDeviceID(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)

	_, err := f.service.CreateSession(context.Background(), "user1", sessions.CreateSessionParams{})

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "SES_1000", svcErr.Code)
	assert.Equal(t, "invalid_argument", svcErr.Category)
}

func TestCreateSession_ErrSessionAlreadyExists(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateSession(ctx, "user1", sessions.CreateSessionParams{
		SessionID: "session1",
		DeviceID:  "device1",
	})
	require.NoError(t, err)

	_, err = f.service.CreateSession(ctx, "user2", sessions.CreateSessionParams{
		SessionID: "session1",
		DeviceID:  "device2",
	})

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "SES_1004", svcErr.Code)
	assert.Equal(t, "resource_conflict", svcErr.Category)
}

func TestGetSession_ErrSessionNotFound_WrongOwner(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateSession(ctx, "user1", sessions.CreateSessionParams{
		SessionID: "session1",
		DeviceID:  "device1",
	})
	require.NoError(t, err)

	_, err = f.service.GetSession(ctx, "user2", "session1")

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "SES_1002", svcErr.Code)
	assert.Equal(t, "not_found", svcErr.Category)
}

func TestDeleteSession_RemovesSessionAndChunks(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)
	ctx := context.Background()

	session, err := f.service.CreateSession(ctx, "user1", sessions.CreateSessionParams{
		SessionID: "session1",
		DeviceID:  "device1",
	})
	require.NoError(t, err)

	chunk := &models.DataChunk{
		SessionID:     session.SessionID,
		SequenceIndex: 0,
		StartTime:     1000,
		EndTime:       1001,
		SampleCount:   2,
		Timestamps:    []int64{1000, 1001},
		Channels:      [][]float64{{1, 2}},
		Stats:         make([]models.ChannelStats, 1),
		Kind:          models.ChunkProvisional,
	}
	require.NoError(t, f.chunkStore.Insert(ctx, chunk))

	require.NoError(t, f.service.DeleteSession(ctx, "user1", "session1"))

	_, err = f.sessionStore.Get(ctx, "session1")
	assert.ErrorIs(t, err, stores.ErrSessionNotFound)

	count, err := f.chunkStore.CountProvisional(ctx, "session1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteSession_ErrSessionNotFound(t *testing.T) {
	t.Parallel()

	f := newSessionFixture(t)

	err := f.service.DeleteSession(context.Background(), "user1", "missing")

	require.Error(t, err, "expected error")
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok, "expected ServiceError")
	assert.Equal(t, "SES_1002", svcErr.Code)
}
