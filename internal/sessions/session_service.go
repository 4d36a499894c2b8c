package sessions

import (
	"context"
	"errors"
	"time"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/configs"
	"biosignal-pipeline/internal/shared/loggers"
	"biosignal-pipeline/internal/shared/metrics"
	"biosignal-pipeline/internal/shared/ulid"
	"biosignal-pipeline/internal/stores"
)

const defaultSampleRate = 1000

// CreateSessionParams carries the client-supplied fields of a new session.
type CreateSessionParams struct {
	// SessionID is optional. Empty means the service assigns one.
	SessionID  string
	DeviceID   string
	DeviceType string
	DeviceName string
	// SampleRate in Hz. Zero falls back to the default rate.
	SampleRate float64
}

//go:generate mockgen -source=session_service.go -destination=./mocks/session_service_mock.go -package=mocks
type SessionService interface {
	// CreateSession registers a new active recording session.
	CreateSession(ctx context.Context, userID string, params CreateSessionParams) (*models.Session, error)
	// GetSession returns a session owned by userID.
	GetSession(ctx context.Context, userID string, sessionID string) (*models.Session, error)
	// DeleteSession removes a session and every chunk stored for it.
	DeleteSession(ctx context.Context, userID string, sessionID string) error
}

type sessionService struct {
	cfg          configs.IngestionConfig
	sessionStore stores.SessionStore
	chunkStore   stores.ChunkStore
}

func NewSessionService(cfg configs.IngestionConfig, sessionStore stores.SessionStore, chunkStore stores.ChunkStore) SessionService {
	return &sessionService{
		cfg:          cfg,
		sessionStore: sessionStore,
		chunkStore:   chunkStore,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, userID string, params CreateSessionParams) (*models.Session, error) {
	if userID == "" {
		return nil, errValidationFailed("userID is required", nil)
	}
	if params.DeviceID == "" {
		return nil, errValidationFailed("deviceID is required", nil)
	}
	if params.SampleRate < 0 {
		return nil, errValidationFailed("sampleRate must not be negative", nil)
	}

	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = ulid.NewULID()
	}
	sampleRate := params.SampleRate
	if sampleRate == 0 {
		sampleRate = defaultSampleRate
	}

	session := &models.Session{
		SessionID:    sessionID,
		UserID:       userID,
		DeviceID:     params.DeviceID,
		DeviceName:   params.DeviceName,
		DeviceType:   models.NewDeviceTypeFromString(params.DeviceType),
		SampleRate:   sampleRate,
		ChannelCount: s.cfg.ChannelCount,
		Status:       models.SessionActive,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.sessionStore.Create(ctx, session)
	if err != nil {
		if errors.Is(err, stores.ErrSessionAlreadyExists) {
			return nil, errSessionAlreadyExists(err)
		}
		return nil, errInternalSessionStoreFailed(err)
	}

	metricSessionCreatedTotal.WithLabelValues(string(session.DeviceType)).Inc()
	loggers.Ctx(ctx).Info().
		Str(loggers.FieldSessionID, session.SessionID).
		Str(loggers.FieldDeviceType, string(session.DeviceType)).
		Msg("created session")

	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, userID string, sessionID string) (*models.Session, error) {
	if userID == "" {
		return nil, errValidationFailed("userID is required", nil)
	}
	if sessionID == "" {
		return nil, errValidationFailed("sessionID is required", nil)
	}

	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, stores.ErrSessionNotFound) {
			return nil, errSessionNotFound(err)
		}
		return nil, errInternalSessionStoreFailed(err)
	}
	if session.UserID != userID {
		return nil, errSessionNotFound(nil)
	}
	return session, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, userID string, sessionID string) error {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	// Chunks go first. If the session record outlives its chunks after a
	// crash, a retried delete still finds and removes it.
	deleted, err := s.chunkStore.DeleteAll(ctx, session.SessionID)
	if err != nil {
		return errInternalChunkStoreFailed(err)
	}

	err = s.sessionStore.Delete(ctx, session.SessionID)
	if err != nil && !errors.Is(err, stores.ErrSessionNotFound) {
		return errInternalSessionStoreFailed(err)
	}

	metricSessionDeletedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	loggers.Ctx(ctx).Info().
		Str(loggers.FieldSessionID, sessionID).
		Int(loggers.FieldChunkSeq, deleted).
		Msg("deleted session")

	return nil
}
