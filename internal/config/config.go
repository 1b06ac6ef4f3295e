package config

import (
	"os"
	"strconv"
	"time"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Uploads   UploadConfig
	Exports   ExportConfig
	Data      DataConfig
	Coercion  CoercionConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	Host            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// UploadConfig holds dataset upload limits
type UploadConfig struct {
	// MaxUploadMB caps the multipart body size.
	MaxUploadMB int64
	// ParseSlots bounds how many uploads parse concurrently; parsing
	// spikes memory, serving does not.
	ParseSlots int
}

// ExportConfig holds download settings
type ExportConfig struct {
	Dir string
}

// DataConfig holds dataset handling settings
type DataConfig struct {
	PreviewRows int
	SampleRows  int
	SampleSeed  int64
}

// CoercionConfig holds the column type inference thresholds
type CoercionConfig struct {
	NumericThreshold  float64
	BooleanThreshold  float64
	DatetimeThreshold float64
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Uploads:   loadUploadConfig(),
		Exports:   loadExportConfig(),
		Data:      loadDataConfig(),
		Coercion:  loadCoercionConfig(),
		Profiling: loadProfilingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8090"),
		Host:            getEnvOrDefault("HOST", ""),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadUploadConfig() UploadConfig {
	return UploadConfig{
		MaxUploadMB: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)),
		ParseSlots:  getEnvIntOrDefault("UPLOAD_PARSE_SLOTS", 2),
	}
}

func loadExportConfig() ExportConfig {
	return ExportConfig{
		Dir: getEnvOrDefault("EXPORT_DIR", "./exports"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 20),
		SampleRows:  getEnvIntOrDefault("SAMPLE_ROWS", 5000),
		SampleSeed:  int64(getEnvIntOrDefault("SAMPLE_SEED", 42)),
	}
}

func loadCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:  getEnvFloatOrDefault("NUMERIC_THRESHOLD", 0.90),
		BooleanThreshold:  getEnvFloatOrDefault("BOOLEAN_THRESHOLD", 0.95),
		DatetimeThreshold: getEnvFloatOrDefault("DATETIME_THRESHOLD", 0.90),
	}
}

func loadProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Uploads.MaxUploadMB < 1 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be at least 1")
	}
	if config.Uploads.ParseSlots < 1 {
		return errors.ConfigInvalid("UPLOAD_PARSE_SLOTS must be at least 1")
	}
	if config.Exports.Dir == "" {
		return errors.ConfigInvalid("EXPORT_DIR is required")
	}
	if config.Data.PreviewRows < 1 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be at least 1")
	}
	if config.Data.SampleRows < 1 {
		return errors.ConfigInvalid("SAMPLE_ROWS must be at least 1")
	}
	for _, threshold := range []float64{
		config.Coercion.NumericThreshold,
		config.Coercion.BooleanThreshold,
		config.Coercion.DatetimeThreshold,
	} {
		if threshold <= 0 || threshold > 1 {
			return errors.ConfigInvalid("coercion thresholds must be in (0, 1]")
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
