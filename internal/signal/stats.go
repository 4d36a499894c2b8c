package signal

import (
	"math"

	"biosignal-pipeline/internal/models"
)

// statsPrecision is the number of decimals statistics are rounded to
// before storage, keeping persisted values stable across recomputation.
const statsPrecision = 1e4

// Stats computes {min, max, avg, rms, count} over values. Empty input
// yields the zero value; callers treat a zero-sample channel as defined,
// not failed.
func Stats(values []float64) models.ChannelStats {
	if len(values) == 0 {
		return models.ChannelStats{}
	}

	min := values[0]
	max := values[0]
	var sum, sumSquares float64
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
		sumSquares += v * v
	}

	n := float64(len(values))
	return models.ChannelStats{
		Min:   roundStat(min),
		Max:   roundStat(max),
		Avg:   roundStat(sum / n),
		RMS:   roundStat(math.Sqrt(sumSquares / n)),
		Count: len(values),
	}
}

func roundStat(v float64) float64 {
	return math.Round(v*statsPrecision) / statsPrecision
}
