package models

import "fmt"

// ChunkKind distinguishes the ephemeral per-upload chunks from the single
// durable chunk a finalized session keeps.
type ChunkKind string

const (
	// ChunkProvisional is written once per ingested batch and removed on
	// session finalization.
	ChunkProvisional ChunkKind = "provisional"
	// ChunkConsolidated is the single time-sorted chunk representing a
	// completed session. Rewritten only when a crashed finalization left
	// a stale copy behind.
	ChunkConsolidated ChunkKind = "consolidated"
)

// ChannelStats holds the per-channel summary statistics stored with every
// chunk. Values are rounded to four decimals for storage stability.
type ChannelStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	RMS   float64 `json:"rms"`
	Count int     `json:"count"`
}

// DataChunk is a time-bounded block of multi-channel samples in
// channel-major layout: Channels[i] holds the ordered values of channel i,
// and Timestamps holds the matching per-sample timestamps (epoch ms).
// Invariant: len(Timestamps) == SampleCount == len(Channels[i]) for all i.
type DataChunk struct {
	SessionID     string         `json:"sessionId"`
	SequenceIndex int            `json:"sequenceIndex"`
	StartTime     int64          `json:"startTime"`
	EndTime       int64          `json:"endTime"`
	SampleCount   int            `json:"sampleCount"`
	Timestamps    []int64        `json:"timestamps"`
	Channels      [][]float64    `json:"channels"`
	Stats         []ChannelStats `json:"stats"`
	Kind          ChunkKind      `json:"kind"`

	// ArrivalOrder reconstructs original ingestion order across provisional
	// chunks. Meaningful for provisional chunks only.
	ArrivalOrder int `json:"arrivalOrder,omitempty"`

	// SourceChunkCount records how many provisional chunks were merged into
	// a consolidated chunk. Meaningful for consolidated chunks only.
	SourceChunkCount int `json:"sourceChunkCount,omitempty"`
}

// Validate enforces the structural invariant before a chunk is persisted.
func (c *DataChunk) Validate() error {
	if c.SessionID == "" {
		return fmt.Errorf("chunk has empty session ID")
	}
	if c.Kind != ChunkProvisional && c.Kind != ChunkConsolidated {
		return fmt.Errorf("chunk has invalid kind %q", c.Kind)
	}
	if len(c.Timestamps) != c.SampleCount {
		return fmt.Errorf("timestamp count %d does not match sample count %d", len(c.Timestamps), c.SampleCount)
	}
	if len(c.Stats) != len(c.Channels) {
		return fmt.Errorf("stats count %d does not match channel count %d", len(c.Stats), len(c.Channels))
	}
	for i, ch := range c.Channels {
		if len(ch) != c.SampleCount {
			return fmt.Errorf("channel %d has %d values, expected %d", i, len(ch), c.SampleCount)
		}
	}
	return nil
}

// Intersects reports whether the chunk's [StartTime, EndTime] interval
// overlaps the query interval [start, end].
func (c *DataChunk) Intersects(start, end int64) bool {
	return c.StartTime <= end && c.EndTime >= start
}
