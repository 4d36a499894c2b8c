package signal

import (
	"fmt"
	"math"
	"sort"
)

// NormalizeMethod selects one of the interchangeable rescaling strategies.
type NormalizeMethod string

const (
	NormalizeMinMax     NormalizeMethod = "min-max"
	NormalizeZScore     NormalizeMethod = "z-score"
	NormalizeRMS        NormalizeMethod = "rms"
	NormalizeMaxAbs     NormalizeMethod = "max-abs"
	NormalizePercentile NormalizeMethod = "percentile"
)

// NewNormalizeMethodFromString validates a raw strategy name.
func NewNormalizeMethodFromString(s string) (NormalizeMethod, error) {
	switch NormalizeMethod(s) {
	case NormalizeMinMax, NormalizeZScore, NormalizeRMS, NormalizeMaxAbs, NormalizePercentile:
		return NormalizeMethod(s), nil
	default:
		return "", fmt.Errorf("unknown normalization method %q", s)
	}
}

// NormalizeOptions tunes the strategies that take parameters.
type NormalizeOptions struct {
	// Target range for min-max rescaling.
	TargetMin float64
	TargetMax float64
	// Percentile bounds (0-100) for percentile rescaling.
	LowerPct float64
	UpperPct float64
}

func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		TargetMin: 0,
		TargetMax: 1,
		LowerPct:  5,
		UpperPct:  95,
	}
}

// Normalize rescales values with the given strategy. Every strategy is a
// pure function; the input slice is never mutated. Degenerate inputs
// (constant sequences, zero spread) map to the strategy's defined floor
// value rather than producing NaN.
func Normalize(values []float64, method NormalizeMethod, opts NormalizeOptions) []float64 {
	switch method {
	case NormalizeMinMax:
		return normalizeMinMax(values, opts.TargetMin, opts.TargetMax)
	case NormalizeZScore:
		return normalizeZScore(values)
	case NormalizeRMS:
		return normalizeRMS(values)
	case NormalizeMaxAbs:
		return normalizeMaxAbs(values)
	case NormalizePercentile:
		return normalizePercentile(values, opts.LowerPct, opts.UpperPct)
	default:
		return append([]float64(nil), values...)
	}
}

func normalizeMinMax(values []float64, targetMin, targetMax float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		for i := range out {
			out[i] = targetMin
		}
		return out
	}

	scale := (targetMax - targetMin) / (max - min)
	for i, v := range values {
		out[i] = targetMin + (v-min)*scale
	}
	return out
}

func normalizeZScore(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sumSqDiff float64
	for _, v := range values {
		d := v - mean
		sumSqDiff += d * d
	}
	std := math.Sqrt(sumSqDiff / float64(len(values)))

	if std == 0 {
		return out
	}

	for i, v := range values {
		out[i] = (v - mean) / std
	}
	return out
}

func normalizeRMS(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	var sumSquares float64
	for _, v := range values {
		sumSquares += v * v
	}
	rms := math.Sqrt(sumSquares / float64(len(values)))

	if rms == 0 {
		return out
	}

	for i, v := range values {
		out[i] = v / rms
	}
	return out
}

func normalizeMaxAbs(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	var maxAbs float64
	for _, v := range values {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}

	if maxAbs == 0 {
		return out
	}

	for i, v := range values {
		out[i] = v / maxAbs
	}
	return out
}

func normalizePercentile(values []float64, lowerPct, upperPct float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lower := percentileOf(sorted, lowerPct)
	upper := percentileOf(sorted, upperPct)

	if upper == lower {
		return out
	}

	for i, v := range values {
		scaled := (v - lower) / (upper - lower)
		if scaled < 0 {
			scaled = 0
		}
		if scaled > 1 {
			scaled = 1
		}
		out[i] = scaled
	}
	return out
}

// percentileOf interpolates the pct-th percentile of an ascending-sorted
// slice.
func percentileOf(sorted []float64, pct float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
