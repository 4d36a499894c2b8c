package models

// SamplesToChannels transposes a sample-major sequence into channel-major
// layout. Sample value vectors shorter than channelCount are zero-padded;
// longer vectors are truncated. Returns the per-channel value slices and
// the parallel timestamp slice.
func SamplesToChannels(samples []*Sample, channelCount int) ([][]float64, []int64) {
	channels := make([][]float64, channelCount)
	for i := range channels {
		channels[i] = make([]float64, len(samples))
	}
	timestamps := make([]int64, len(samples))

	for s, sample := range samples {
		timestamps[s] = sample.Timestamp
		for ch := 0; ch < channelCount; ch++ {
			if ch < len(sample.Values) {
				channels[ch][s] = sample.Values[ch]
			}
			// Missing trailing channels stay zero
		}
	}

	return channels, timestamps
}

// ChunkToSamples is the inverse transform: it reconstructs the sample-major
// sequence from a chunk's channel-major payload.
func ChunkToSamples(chunk *DataChunk) []*Sample {
	samples := make([]*Sample, chunk.SampleCount)
	for s := 0; s < chunk.SampleCount; s++ {
		values := make([]float64, len(chunk.Channels))
		for ch := range chunk.Channels {
			values[ch] = chunk.Channels[ch][s]
		}
		samples[s] = &Sample{
			Timestamp: chunk.Timestamps[s],
			Values:    values,
			SessionID: chunk.SessionID,
		}
	}
	return samples
}
