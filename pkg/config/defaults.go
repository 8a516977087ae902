package config

import (
	"strings"
	"time"
)

// GetDefaultConfig returns a fully-populated Config suitable for running
// metacachectl with no config file at all.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills any zero-valued fields of cfg with their defaults.
// It is applied both to a freshly-unmarshaled Config (to backfill fields
// the file omitted) and to GetDefaultConfig's bare struct.
func ApplyDefaults(cfg *Config) {
	applyCacheDefaults(&cfg.Cache)
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)

	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = time.Second
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.Capacity == 0 {
		cfg.Capacity = 4096
	}
	if cfg.MaxEntrySize == 0 {
		cfg.MaxEntrySize = 64 * 1024
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.HeaderPageSize == 0 {
		cfg.HeaderPageSize = 4096
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	applyProfilingDefaults(&cfg.Profiling)
}

func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "alloc_objects", "inuse_objects"}
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}
