package finalizers

import (
	"context"
	"errors"
	"sort"
	"time"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/loggers"
	"biosignal-pipeline/internal/shared/metrics"
	"biosignal-pipeline/internal/shared/sessionlocks"
	"biosignal-pipeline/internal/signal"
	"biosignal-pipeline/internal/stores"
)

// FinalizeResult represents the outcome of one finalization attempt.
type FinalizeResult struct {
	SessionID        string
	TotalSamples     int
	SourceChunkCount int

	// AlreadyCompleted is set when the session was finalized before this
	// call. Repeated finalizations are accepted, not rejected.
	AlreadyCompleted bool
}

//go:generate mockgen -source=finalization_service.go -destination=./mocks/finalization_service_mock.go -package=mocks
type FinalizationService interface {
	// FinalizeSession merges all provisional chunks of a session into a
	// single time-sorted consolidated chunk and moves the session to the
	// completed state. Safe to call repeatedly.
	FinalizeSession(ctx context.Context, userID string, sessionID string) (*FinalizeResult, error)
}

type finalizationService struct {
	sessionStore stores.SessionStore
	chunkStore   stores.ChunkStore
	locks        *sessionlocks.KeyedLocks
}

func NewFinalizationService(sessionStore stores.SessionStore, chunkStore stores.ChunkStore) FinalizationService {
	return &finalizationService{
		sessionStore: sessionStore,
		chunkStore:   chunkStore,
		locks:        sessionlocks.New(),
	}
}

func (s *finalizationService) FinalizeSession(ctx context.Context, userID string, sessionID string) (*FinalizeResult, error) {
	logger := loggers.Ctx(ctx)

	if userID == "" {
		return nil, errValidationFailed("userID is required", nil)
	}
	if sessionID == "" {
		return nil, errValidationFailed("sessionID is required", nil)
	}

	// One finalizer per session at a time. Concurrent calls queue up and
	// observe the completed state once the first one is through.
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, stores.ErrSessionNotFound) {
			svcError := errSessionNotFound(err)
			metricSessionFinalizedTotal.WithLabelValues(svcError.Code).Inc()
			return nil, svcError
		}
		return nil, errInternalSessionStoreFailed(err)
	}
	if session.UserID != userID {
		svcError := errSessionNotFound(nil)
		metricSessionFinalizedTotal.WithLabelValues(svcError.Code).Inc()
		return nil, svcError
	}

	if session.IsCompleted() {
		logger.Debug().
			Str(loggers.FieldSessionID, sessionID).
			Msg("session already finalized")
		metricSessionFinalizedTotal.WithLabelValues(metrics.ValueNoError).Inc()
		return &FinalizeResult{
			SessionID:        sessionID,
			TotalSamples:     int(session.TotalSamples),
			AlreadyCompleted: true,
		}, nil
	}
	if !session.IsActive() {
		svcError := errSessionNotActive(nil)
		metricSessionFinalizedTotal.WithLabelValues(svcError.Code).Inc()
		return nil, svcError
	}

	provisional, err := s.chunkStore.ScanProvisional(ctx, sessionID)
	if err != nil {
		return nil, errInternalChunkStoreFailed(err)
	}

	totalSamples := 0
	if len(provisional) > 0 {
		consolidated := s.consolidate(session, provisional)
		totalSamples = consolidated.SampleCount

		// The consolidated chunk goes in before the provisional ones go
		// away, so a crash mid-finalization never loses data.
		err = s.chunkStore.Insert(ctx, consolidated)
		if errors.Is(err, stores.ErrChunkAlreadyExists) {
			// Leftover from a crashed attempt. The session stayed active in
			// the meantime, so batches may have arrived since; the recomputed
			// merge includes them while the stored chunk does not. Reuse the
			// stored chunk only when the two agree.
			stored, getErr := s.chunkStore.GetConsolidated(ctx, sessionID)
			if getErr != nil {
				return nil, errInternalChunkStoreFailed(getErr)
			}
			if stored.SampleCount != consolidated.SampleCount {
				if err := s.chunkStore.Replace(ctx, consolidated); err != nil {
					return nil, errInternalChunkStoreFailed(err)
				}
			}
		} else if err != nil {
			return nil, errInternalChunkStoreFailed(err)
		}

		if _, err := s.chunkStore.DeleteProvisional(ctx, sessionID); err != nil {
			return nil, errInternalChunkStoreFailed(err)
		}
		metricChunksConsolidatedTotal.WithLabelValues().Add(float64(len(provisional)))
	}

	now := time.Now().UTC()
	session.Status = models.SessionCompleted
	session.EndedAt = &now
	session.TotalSamples = int64(totalSamples)
	if err := s.sessionStore.Update(ctx, session); err != nil {
		return nil, errInternalSessionStoreFailed(err)
	}

	metricSessionFinalizedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	logger.Info().
		Str(loggers.FieldSessionID, sessionID).
		Int(loggers.FieldSampleCount, totalSamples).
		Int(loggers.FieldChunkSeq, len(provisional)).
		Msg("finalized session")

	return &FinalizeResult{
		SessionID:        sessionID,
		TotalSamples:     totalSamples,
		SourceChunkCount: len(provisional),
	}, nil
}

// consolidate merges provisional chunks into one time-sorted chunk. Chunks
// arrive in arrival order, so the stable sort keeps ingestion order for
// samples that share a timestamp.
func (s *finalizationService) consolidate(session *models.Session, provisional []*models.DataChunk) *models.DataChunk {
	var samples []*models.Sample
	for _, chunk := range provisional {
		samples = append(samples, models.ChunkToSamples(chunk)...)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp < samples[j].Timestamp
	})

	channels, timestamps := models.SamplesToChannels(samples, session.ChannelCount)

	stats := make([]models.ChannelStats, len(channels))
	for i, channel := range channels {
		stats[i] = signal.Stats(channel)
	}

	return &models.DataChunk{
		SessionID:        session.SessionID,
		SequenceIndex:    0,
		StartTime:        timestamps[0],
		EndTime:          timestamps[len(timestamps)-1],
		SampleCount:      len(timestamps),
		Timestamps:       timestamps,
		Channels:         channels,
		Stats:            stats,
		Kind:             models.ChunkConsolidated,
		SourceChunkCount: len(provisional),
	}
}
