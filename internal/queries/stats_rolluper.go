package queries

import (
	"math"

	"biosignal-pipeline/internal/models"
)

// channelStatsAccumulator merges per-chunk channel statistics into range
// statistics without touching the raw samples. Averages and RMS combine
// weighted by chunk sample count; RMS merges through the mean of squares.
type channelStatsAccumulator struct {
	min               float64
	max               float64
	weightedSum       float64
	weightedSquareSum float64
	count             int64
}

func newChannelStatsAccumulator() *channelStatsAccumulator {
	return &channelStatsAccumulator{
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

// Rollup accumulates one chunk's statistics for sampleCount samples.
func (a *channelStatsAccumulator) Rollup(stats models.ChannelStats, sampleCount int) {
	if sampleCount <= 0 {
		return
	}
	if stats.Min < a.min {
		a.min = stats.Min
	}
	if stats.Max > a.max {
		a.max = stats.Max
	}
	n := float64(sampleCount)
	a.weightedSum += n * stats.Avg
	a.weightedSquareSum += n * stats.RMS * stats.RMS
	a.count += int64(sampleCount)
}

// Result produces the merged statistics. With nothing accumulated it
// returns the zero value.
func (a *channelStatsAccumulator) Result() models.ChannelStats {
	if a.count == 0 {
		return models.ChannelStats{}
	}
	n := float64(a.count)
	return models.ChannelStats{
		Min:   roundStat(a.min),
		Max:   roundStat(a.max),
		Avg:   roundStat(a.weightedSum / n),
		RMS:   roundStat(math.Sqrt(a.weightedSquareSum / n)),
		Count: int(a.count),
	}
}

func roundStat(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
