package models

// Sample is one multi-channel measurement as uploaded by a device.
// Values is sample-major: one value per channel, in channel order.
type Sample struct {
	Timestamp int64     `json:"timestamp"`
	Values    []float64 `json:"values"`
	SessionID string    `json:"sessionId"`
}

// DeviceInfo carries device metadata sent alongside each upload.
type DeviceInfo struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// BatchInfo carries the uploader's declared batch boundaries, checked
// against the actual payload during ingestion.
type BatchInfo struct {
	Size      int   `json:"size"`
	StartTime int64 `json:"startTime"`
	EndTime   int64 `json:"endTime"`
}

// UploadBatch is one staged upload of samples for an active session.
type UploadBatch struct {
	SessionID  string     `json:"sessionId"`
	Samples    []*Sample  `json:"samples"`
	DeviceInfo DeviceInfo `json:"deviceInfo"`
	BatchInfo  BatchInfo  `json:"batchInfo"`
}
