package signal

import (
	"context"
	"math"

	"biosignal-pipeline/internal/models"
	"biosignal-pipeline/internal/shared/loggers"
)

// DefaultFilterOrder is the number of cascaded single-pole passes per side
// of the band, approximating a steeper roll-off than one pass gives.
const DefaultFilterOrder = 4

// BandConfig describes the bandpass applied to a channel: repeated
// high-pass passes at LowCut followed by repeated low-pass passes at
// HighCut, each side cascaded Order times.
type BandConfig struct {
	LowCut  float64
	HighCut float64
	Order   int
}

// BandForDevice returns the bandpass characteristics for a device class.
// Unknown device types have no defined band; ok is false and callers skip
// filtering.
func BandForDevice(deviceType models.DeviceType) (BandConfig, bool) {
	switch deviceType {
	case models.DeviceECG:
		return BandConfig{LowCut: 0.5, HighCut: 20, Order: DefaultFilterOrder}, true
	case models.DeviceEMG:
		return BandConfig{LowCut: 20, HighCut: 400, Order: DefaultFilterOrder}, true
	default:
		return BandConfig{}, false
	}
}

// Bandpass applies the cascaded bandpass causally: output at index i
// depends only on inputs and outputs at indexes <= i. Invalid cutoffs make
// the filter a no-op returning the input unchanged; that is a logged
// warning condition, not an error.
func Bandpass(ctx context.Context, values []float64, sampleRate float64, cfg BandConfig) []float64 {
	if !validBand(ctx, sampleRate, cfg) {
		return values
	}

	order := cfg.Order
	if order < 1 {
		order = DefaultFilterOrder
	}

	out := append([]float64(nil), values...)
	for i := 0; i < order; i++ {
		out = highPassOnce(out, sampleRate, cfg.LowCut)
	}
	for i := 0; i < order; i++ {
		out = lowPassOnce(out, sampleRate, cfg.HighCut)
	}
	return out
}

// BandpassZeroPhase runs the causal filter forward, then again over the
// reversed sequence, cancelling phase distortion at the cost of double the
// computation. Requires the whole signal in memory.
func BandpassZeroPhase(ctx context.Context, values []float64, sampleRate float64, cfg BandConfig) []float64 {
	if !validBand(ctx, sampleRate, cfg) {
		return values
	}

	forward := Bandpass(ctx, values, sampleRate, cfg)
	reverse(forward)
	backward := Bandpass(ctx, forward, sampleRate, cfg)
	reverse(backward)
	return backward
}

func validBand(ctx context.Context, sampleRate float64, cfg BandConfig) bool {
	nyquist := sampleRate / 2
	if cfg.LowCut <= 0 || cfg.HighCut >= nyquist || cfg.LowCut >= cfg.HighCut {
		loggers.Ctx(ctx).Warn().
			Float64("low_cut", cfg.LowCut).
			Float64("high_cut", cfg.HighCut).
			Float64("sample_rate", sampleRate).
			Msg("invalid bandpass cutoffs, filter is a no-op")
		return false
	}
	return true
}

// lowPassOnce is a single-pole recursive low-pass stage. The smoothing
// coefficient follows from the RC time constant of the cutoff and the
// sample interval. The first output is seeded with the first input.
func lowPassOnce(values []float64, sampleRate, cutoff float64) []float64 {
	if len(values) == 0 {
		return values
	}

	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	alpha := dt / (rc + dt)

	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = out[i-1] + alpha*(values[i]-out[i-1])
	}
	return out
}

// highPassOnce is a single-pole recursive high-pass stage, seeded like the
// low-pass stage.
func highPassOnce(values []float64, sampleRate, cutoff float64) []float64 {
	if len(values) == 0 {
		return values
	}

	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	alpha := rc / (rc + dt)

	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha * (out[i-1] + values[i] - values[i-1])
	}
	return out
}

func reverse(values []float64) {
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
}
