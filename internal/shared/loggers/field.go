package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldSessionID   = "session_id"
	FieldChunkSeq    = "chunk_seq"
	FieldSampleCount = "sample_count"
	FieldDeviceType  = "device_type"
)
