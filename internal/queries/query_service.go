package queries

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/configs"
	"biosignal-pipeline/internal/shared/loggers"
	"biosignal-pipeline/internal/shared/metrics"
	"biosignal-pipeline/internal/signal"
	"biosignal-pipeline/internal/stores"
)

// QueryParams selects a slice of a session's recording.
type QueryParams struct {
	// StartTime and EndTime bound the query in epoch milliseconds,
	// inclusive on both ends. Zero values mean unbounded.
	StartTime int64
	EndTime   int64

	// Channels lists the channel indices wanted. Empty means all.
	Channels []int

	// MaxPoints caps the number of points returned per channel. Zero
	// falls back to the configured default.
	MaxPoints int

	// Filtered applies the device-specific bandpass before returning
	// values. Sessions with an unknown device type return raw values.
	Filtered bool

	// Normalize names a rescaling strategy, empty for none.
	Normalize string
}

// ChannelSeries is one channel's slice of the query result. Values align
// with the result's shared Timestamps.
type ChannelSeries struct {
	Channel int                 `json:"channel"`
	Values  []float64           `json:"values"`
	Stats   models.ChannelStats `json:"stats"`
}

// QueryResult is the assembled response for one data query.
type QueryResult struct {
	SessionID     string               `json:"sessionId"`
	SessionStatus models.SessionStatus `json:"sessionStatus"`
	StartTime     int64                `json:"startTime"`
	EndTime       int64                `json:"endTime"`
	Timestamps    []int64              `json:"timestamps"`
	Channels      []*ChannelSeries     `json:"channels"`

	// TotalSamples counts the matching samples before decimation.
	TotalSamples int  `json:"totalSamples"`
	Decimated    bool `json:"decimated"`

	// DataAvailable is false when no stored chunk overlaps the range.
	// An empty range is an answer, not an error.
	DataAvailable bool `json:"dataAvailable"`
}

//go:generate mockgen -source=query_service.go -destination=./mocks/query_service_mock.go -package=mocks
type QueryService interface {
	// QueryData returns the per-channel time series and rolled-up channel
	// statistics for a time range of a session.
	QueryData(ctx context.Context, userID string, sessionID string, params QueryParams) (*QueryResult, error)
}

type queryService struct {
	cfg          configs.QueryConfig
	filterCfg    configs.FilterConfig
	sessionStore stores.SessionStore
	chunkStore   stores.ChunkStore
}

func NewQueryService(cfg configs.QueryConfig, filterCfg configs.FilterConfig, sessionStore stores.SessionStore, chunkStore stores.ChunkStore) QueryService {
	return &queryService{
		cfg:          cfg,
		filterCfg:    filterCfg,
		sessionStore: sessionStore,
		chunkStore:   chunkStore,
	}
}

func (s *queryService) QueryData(ctx context.Context, userID string, sessionID string, params QueryParams) (*QueryResult, error) {
	logger := loggers.Ctx(ctx)

	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	normalizeMethod, err := s.validateParams(session, &params)
	if err != nil {
		return nil, err
	}

	start, end := params.StartTime, params.EndTime
	if end == 0 {
		end = int64(1)<<62 - 1
	}

	channels := params.Channels
	if len(channels) == 0 {
		channels = make([]int, session.ChannelCount)
		for i := range channels {
			channels[i] = i
		}
	}

	chunks, err := s.chunkStore.ScanTimeRange(ctx, sessionID, start, end, channels)
	if err != nil {
		return nil, errInternalChunkStoreFailed(err)
	}

	result := &QueryResult{
		SessionID:     sessionID,
		SessionStatus: session.Status,
		StartTime:     params.StartTime,
		EndTime:       params.EndTime,
		DataAvailable: len(chunks) > 0,
	}
	if len(chunks) == 0 {
		logger.Debug().
			Str(loggers.FieldSessionID, sessionID).
			Msg("no data in queried range")
		metricQueryExecutedTotal.WithLabelValues(metrics.ValueNoError).Inc()
		return result, nil
	}

	timestamps, rows := collectRows(chunks, start, end)
	result.TotalSamples = len(timestamps)

	stride := decimationStride(len(timestamps), params.MaxPoints)
	result.Decimated = stride > 1
	result.Timestamps = decimateInt64(timestamps, stride)

	for _, channel := range channels {
		series := &ChannelSeries{Channel: channel}
		series.Stats = rollupChannelStats(chunks, channel)

		values := rows.channelValues(chunks, channel)
		if params.Filtered {
			if band, ok := signal.BandForDevice(session.DeviceType); ok {
				if s.filterCfg.Order > 0 {
					band.Order = s.filterCfg.Order
				}
				values = signal.BandpassZeroPhase(ctx, values, session.SampleRate, band)
			}
		}
		if normalizeMethod != "" {
			values = signal.Normalize(values, normalizeMethod, signal.DefaultNormalizeOptions())
		}
		series.Values = decimateFloat64(values, stride)

		result.Channels = append(result.Channels, series)
	}

	metricQueryExecutedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	metricPointsReturnedTotal.WithLabelValues().Add(float64(len(result.Timestamps) * len(result.Channels)))

	logger.Debug().
		Str(loggers.FieldSessionID, sessionID).
		Int(loggers.FieldSampleCount, result.TotalSamples).
		Msg("executed data query")

	return result, nil
}

func (s *queryService) loadSession(ctx context.Context, userID string, sessionID string) (*models.Session, error) {
	if userID == "" {
		return nil, errValidationFailed("userID is required", nil)
	}
	if sessionID == "" {
		return nil, errValidationFailed("sessionID is required", nil)
	}

	session, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, stores.ErrSessionNotFound) {
			svcError := errSessionNotFound(err)
			metricQueryExecutedTotal.WithLabelValues(svcError.Code).Inc()
			return nil, svcError
		}
		return nil, errInternalSessionStoreFailed(err)
	}
	if session.UserID != userID {
		svcError := errSessionNotFound(nil)
		metricQueryExecutedTotal.WithLabelValues(svcError.Code).Inc()
		return nil, svcError
	}
	return session, nil
}

// validateParams normalizes params in place and resolves the normalization
// strategy, empty when none was requested.
func (s *queryService) validateParams(session *models.Session, params *QueryParams) (signal.NormalizeMethod, error) {
	if params.StartTime < 0 || params.EndTime < 0 {
		return "", errValidationFailed("time range bounds must not be negative", nil)
	}
	if params.EndTime != 0 && params.StartTime > params.EndTime {
		return "", errValidationFailed(fmt.Sprintf("invalid time range: start %d after end %d", params.StartTime, params.EndTime), nil)
	}
	for _, channel := range params.Channels {
		if channel < 0 || channel >= session.ChannelCount {
			return "", errValidationFailed(fmt.Sprintf("channel %d out of range: session has %d channels", channel, session.ChannelCount), nil)
		}
	}
	if params.MaxPoints < 0 {
		return "", errValidationFailed("maxPoints must not be negative", nil)
	}
	if params.MaxPoints == 0 {
		params.MaxPoints = s.cfg.DefaultMaxPoints
	}

	if params.Normalize == "" {
		return "", nil
	}
	method, err := signal.NewNormalizeMethodFromString(params.Normalize)
	if err != nil {
		return "", errValidationFailed(err.Error(), nil)
	}
	return method, nil
}

// sampleRef addresses one sample inside the scanned chunk list.
type sampleRef struct {
	chunk int
	index int
}

type sampleRows []sampleRef

// collectRows flattens the in-range samples of all chunks into one
// time-sorted sequence. The stable sort keeps chunk order for samples
// sharing a timestamp, matching the consolidation order.
func collectRows(chunks []*models.DataChunk, start, end int64) ([]int64, sampleRows) {
	var rows sampleRows
	for ci, chunk := range chunks {
		for i, ts := range chunk.Timestamps {
			if ts >= start && ts <= end {
				rows = append(rows, sampleRef{chunk: ci, index: i})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return chunks[rows[i].chunk].Timestamps[rows[i].index] < chunks[rows[j].chunk].Timestamps[rows[j].index]
	})

	timestamps := make([]int64, len(rows))
	for i, ref := range rows {
		timestamps[i] = chunks[ref.chunk].Timestamps[ref.index]
	}
	return timestamps, rows
}

// channelValues extracts one channel's values in row order.
func (r sampleRows) channelValues(chunks []*models.DataChunk, channel int) []float64 {
	values := make([]float64, len(r))
	for i, ref := range r {
		values[i] = chunks[ref.chunk].Channels[channel][ref.index]
	}
	return values
}

// rollupChannelStats merges the stored per-chunk statistics of every chunk
// touching the range. Statistics stay chunk-grained: a chunk partially
// inside the range still contributes whole.
func rollupChannelStats(chunks []*models.DataChunk, channel int) models.ChannelStats {
	acc := newChannelStatsAccumulator()
	for _, chunk := range chunks {
		if channel < len(chunk.Stats) {
			acc.Rollup(chunk.Stats[channel], chunk.SampleCount)
		}
	}
	return acc.Result()
}
