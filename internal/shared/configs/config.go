package configs

// Config holds all configuration for the application.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Ingestion   IngestionConfig   `mapstructure:"ingestion" validate:"required"`
	Query       QueryConfig       `mapstructure:"query" validate:"required"`
	Filter      FilterConfig      `mapstructure:"filter" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// FileStorageConfig holds file storage configuration.
type FileStorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"`
}

// IngestionConfig holds batch ingestion configuration.
type IngestionConfig struct {
	ChannelCount int `mapstructure:"channel_count" validate:"required,min=1,max=64"`
	// MaxChunkSamples bounds the number of samples accepted in one upload batch.
	MaxChunkSamples int `mapstructure:"max_chunk_samples" validate:"required,min=1"`
	// BoundaryToleranceMs is the allowed deviation between declared batch
	// start/end times and the first/last sample timestamps.
	BoundaryToleranceMs int64 `mapstructure:"boundary_tolerance_ms" validate:"min=0"`
}

// QueryConfig holds data query configuration.
type QueryConfig struct {
	DefaultMaxPoints int `mapstructure:"default_max_points" validate:"required,min=1"`
}

// FilterConfig holds signal filter configuration.
type FilterConfig struct {
	Order int `mapstructure:"order" validate:"required,min=1,max=16"`
}
