package models

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionError     SessionStatus = "error"
)

// Session identifies one continuous recording from a single device.
// It is mutated by the ingestion path (running totals, device metadata)
// while active, and transitions to a terminal status exactly once.
type Session struct {
	SessionID    string        `json:"sessionId"`
	UserID       string        `json:"userId"`
	DeviceID     string        `json:"deviceId"`
	DeviceName   string        `json:"deviceName,omitempty"`
	DeviceType   DeviceType    `json:"deviceType"`
	DeviceAddr   string        `json:"deviceAddress,omitempty"`
	ClientApp    string        `json:"clientApp,omitempty"`
	SampleRate   float64       `json:"sampleRate"`
	ChannelCount int           `json:"channelCount"`
	TotalSamples int64         `json:"totalSamples"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	EndedAt      *time.Time    `json:"endedAt,omitempty"`
}

func (s *Session) IsActive() bool {
	return s.Status == SessionActive
}

func (s *Session) IsCompleted() bool {
	return s.Status == SessionCompleted
}
