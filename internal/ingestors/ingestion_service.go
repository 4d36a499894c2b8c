package ingestors

import (
	"context"
	"errors"
	"fmt"

	"github.com/mileusna/useragent"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/configs"
	"biosignal-pipeline/internal/shared/loggers"
	"biosignal-pipeline/internal/shared/metrics"
	"biosignal-pipeline/internal/shared/svcerrors"
	"biosignal-pipeline/internal/signal"
	"biosignal-pipeline/internal/stores"
)

// IngestResult represents the outcome of one batch ingestion.
type IngestResult struct {
	SessionID      string
	SequenceIndex  int
	ProcessedCount int
	SessionStatus  models.SessionStatus
}

//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	// IngestBatch validates and persists one upload batch as a provisional
	// chunk of the session. A batch for an already completed session is
	// accepted and dropped: the result reports zero processed samples.
	IngestBatch(ctx context.Context, userID string, userAgent string, batch *models.UploadBatch) (*IngestResult, error)
}

type ingestionService struct {
	cfg          configs.IngestionConfig
	sessionStore stores.SessionStore
	chunkStore   stores.ChunkStore
}

func NewIngestionService(cfg configs.IngestionConfig, sessionStore stores.SessionStore, chunkStore stores.ChunkStore) IngestionService {
	return &ingestionService{
		cfg:          cfg,
		sessionStore: sessionStore,
		chunkStore:   chunkStore,
	}
}

func (s *ingestionService) IngestBatch(ctx context.Context, userID string, userAgent string, batch *models.UploadBatch) (*IngestResult, error) {
	logger := loggers.Ctx(ctx)

	if err := s.validateBatch(userID, batch); err != nil {
		var svcError *svcerrors.ServiceError
		if errors.As(err, &svcError) {
			metricBatchIngestedTotal.WithLabelValues(svcError.Code).Inc()
		}
		return nil, err
	}

	logger.Debug().
		Str(loggers.FieldSessionID, batch.SessionID).
		Int(loggers.FieldSampleCount, len(batch.Samples)).
		Msg("started ingesting batch")

	session, err := s.sessionStore.Get(ctx, batch.SessionID)
	if err != nil {
		if errors.Is(err, stores.ErrSessionNotFound) {
			svcError := errSessionNotFound(err)
			metricBatchIngestedTotal.WithLabelValues(svcError.Code).Inc()
			return nil, svcError
		}
		return nil, errInternalSessionStoreFailed(err)
	}
	// Ownership failures are indistinguishable from unknown sessions.
	if session.UserID != userID {
		svcError := errSessionNotFound(nil)
		metricBatchIngestedTotal.WithLabelValues(svcError.Code).Inc()
		return nil, svcError
	}

	// Batches that straggle in after finalization are dropped, not rejected.
	if session.IsCompleted() {
		logger.Debug().
			Str(loggers.FieldSessionID, session.SessionID).
			Msg("session already completed, dropping batch")
		metricBatchIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()
		return &IngestResult{
			SessionID:      session.SessionID,
			ProcessedCount: 0,
			SessionStatus:  session.Status,
		}, nil
	}
	if !session.IsActive() {
		svcError := errSessionNotActive(nil)
		metricBatchIngestedTotal.WithLabelValues(svcError.Code).Inc()
		return nil, svcError
	}

	seqIndex, err := s.chunkStore.CountProvisional(ctx, session.SessionID)
	if err != nil {
		return nil, errInternalChunkStoreFailed(err)
	}

	chunk := s.buildProvisionalChunk(session, batch, seqIndex)

	err = s.chunkStore.Insert(ctx, chunk)
	if err != nil {
		if errors.Is(err, stores.ErrChunkAlreadyExists) {
			svcError := errDuplicateChunkIndex(err)
			metricBatchIngestedTotal.WithLabelValues(svcError.Code).Inc()
			return nil, svcError
		}
		return nil, errInternalChunkStoreFailed(err)
	}

	// Session bookkeeping is best-effort: the chunk is already durable and
	// finalization recomputes totals from the chunks themselves.
	s.updateSessionTotals(ctx, session, batch, userAgent)

	metricBatchIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	metricSamplesIngestedTotal.WithLabelValues(string(session.DeviceType)).Add(float64(chunk.SampleCount))

	logger.Info().
		Str(loggers.FieldSessionID, session.SessionID).
		Int(loggers.FieldChunkSeq, seqIndex).
		Int(loggers.FieldSampleCount, chunk.SampleCount).
		Msg("ingested batch")

	return &IngestResult{
		SessionID:      session.SessionID,
		SequenceIndex:  seqIndex,
		ProcessedCount: chunk.SampleCount,
		SessionStatus:  session.Status,
	}, nil
}

func (s *ingestionService) validateBatch(userID string, batch *models.UploadBatch) error {
	if userID == "" {
		return errValidationFailed("userID is required", nil)
	}
	if batch == nil {
		return errValidationFailed("empty request body", nil)
	}
	if batch.SessionID == "" {
		return errValidationFailed("sessionID is required", nil)
	}
	if len(batch.Samples) == 0 {
		return errValidationFailed("samples cannot be empty", nil)
	}
	if len(batch.Samples) > s.cfg.MaxChunkSamples {
		return errValidationFailed(fmt.Sprintf("too many samples: max %d per batch", s.cfg.MaxChunkSamples), nil)
	}

	if batch.BatchInfo.Size != len(batch.Samples) {
		return errBatchIntegrity(fmt.Sprintf("declared batch size %d does not match %d samples", batch.BatchInfo.Size, len(batch.Samples)), nil)
	}

	minTS, maxTS := batch.Samples[0].Timestamp, batch.Samples[0].Timestamp
	for i, sample := range batch.Samples {
		if sample == nil {
			return errValidationFailed(fmt.Sprintf("sample at index %d is null", i), nil)
		}
		if sample.Timestamp <= 0 {
			return errValidationFailed(fmt.Sprintf("sample at index %d: timestamp must be positive", i), nil)
		}
		if sample.SessionID != "" && sample.SessionID != batch.SessionID {
			return errBatchIntegrity(fmt.Sprintf("sample at index %d belongs to a different session", i), nil)
		}
		if sample.Timestamp < minTS {
			minTS = sample.Timestamp
		}
		if sample.Timestamp > maxTS {
			maxTS = sample.Timestamp
		}
	}

	if batch.BatchInfo.StartTime != 0 && absDiff(batch.BatchInfo.StartTime, minTS) > s.cfg.BoundaryToleranceMs {
		return errBatchIntegrity(fmt.Sprintf("declared start time %d deviates from first sample %d by more than %dms", batch.BatchInfo.StartTime, minTS, s.cfg.BoundaryToleranceMs), nil)
	}
	if batch.BatchInfo.EndTime != 0 && absDiff(batch.BatchInfo.EndTime, maxTS) > s.cfg.BoundaryToleranceMs {
		return errBatchIntegrity(fmt.Sprintf("declared end time %d deviates from last sample %d by more than %dms", batch.BatchInfo.EndTime, maxTS, s.cfg.BoundaryToleranceMs), nil)
	}

	return nil
}

func (s *ingestionService) buildProvisionalChunk(session *models.Session, batch *models.UploadBatch, seqIndex int) *models.DataChunk {
	channels, timestamps := models.SamplesToChannels(batch.Samples, session.ChannelCount)

	stats := make([]models.ChannelStats, len(channels))
	for i, channel := range channels {
		stats[i] = signal.Stats(channel)
	}

	minTS, maxTS := timestamps[0], timestamps[0]
	for _, ts := range timestamps {
		if ts < minTS {
			minTS = ts
		}
		if ts > maxTS {
			maxTS = ts
		}
	}

	return &models.DataChunk{
		SessionID:     session.SessionID,
		SequenceIndex: seqIndex,
		StartTime:     minTS,
		EndTime:       maxTS,
		SampleCount:   len(timestamps),
		Timestamps:    timestamps,
		Channels:      channels,
		Stats:         stats,
		Kind:          models.ChunkProvisional,
		ArrivalOrder:  seqIndex,
	}
}

// updateSessionTotals advances the session's running totals and fills in
// device metadata the session record does not have yet. Failures are logged
// and swallowed.
func (s *ingestionService) updateSessionTotals(ctx context.Context, session *models.Session, batch *models.UploadBatch, userAgent string) {
	session.TotalSamples += int64(len(batch.Samples))
	if session.DeviceName == "" && batch.DeviceInfo.Name != "" {
		session.DeviceName = batch.DeviceInfo.Name
	}
	if session.DeviceAddr == "" && batch.DeviceInfo.Address != "" {
		session.DeviceAddr = batch.DeviceInfo.Address
	}
	if session.ClientApp == "" && userAgent != "" {
		session.ClientApp = normalizeUserAgent(userAgent)
	}

	if err := s.sessionStore.Update(ctx, session); err != nil {
		loggers.Ctx(ctx).Warn().
			Err(err).
			Str(loggers.FieldSessionID, session.SessionID).
			Msg("failed to update session totals")
	}
}

// normalizeUserAgent parses user agent to extract the client family, or
// returns the original if parsing fails.
func normalizeUserAgent(ua string) string {
	parsed := useragent.Parse(ua)
	if parsed.Name != "" {
		return parsed.Name
	}
	return ua
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
