package models

// DeviceType classifies the recording hardware. The type selects the
// bandpass characteristics applied when conditioned data is requested.
type DeviceType string

const (
	DeviceECG     DeviceType = "ecg"
	DeviceEMG     DeviceType = "emg"
	DeviceUnknown DeviceType = "unknown"
)

// NewDeviceTypeFromString maps a raw string to a DeviceType.
// Unrecognized values resolve to DeviceUnknown rather than erroring;
// recordings from unclassified hardware are still ingestible.
func NewDeviceTypeFromString(s string) DeviceType {
	switch DeviceType(s) {
	case DeviceECG:
		return DeviceECG
	case DeviceEMG:
		return DeviceEMG
	default:
		return DeviceUnknown
	}
}
