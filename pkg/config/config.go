// Package config loads metacachectl's configuration from a YAML file,
// environment variables, and defaults, following the same viper-based
// layering and mapstructure decode hooks used throughout the wider
// project this CLI was extracted from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is metacachectl's top-level configuration.
//
// Configuration sources, highest precedence first:
//  1. Environment variables (METACACHE_*), consulted only when a
//     configuration file is found and only for keys that file sets
//  2. Configuration file (YAML)
//  3. Defaults
//
// No CLI flags are bound onto viper; the only flag is --config, which
// selects the file.
type Config struct {
	// Cache controls the underlying metacache.Cache construction
	// parameters. bucketCount is derived from HeaderPageSize at
	// construction time and is NOT itself configurable; changing
	// HeaderPageSize in a running process's config file has no effect
	// until the process restarts and calls metacache.New again — Cache
	// has no notion of live bucket-table resizing.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// SweepInterval is how often `metacachectl serve` calls
	// InvalidateExpired while idle.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required,gt=0" yaml:"sweep_interval"`
}

// CacheConfig mirrors metacache.New's three required parameters plus the
// two construction-time options most worth exposing to operators.
type CacheConfig struct {
	Capacity       int           `mapstructure:"capacity" validate:"required,gt=0" yaml:"capacity"`
	MaxEntrySize   uint32        `mapstructure:"max_entry_size" validate:"required,gt=0" yaml:"max_entry_size"`
	Timeout        time.Duration `mapstructure:"timeout" validate:"required,gt=0" yaml:"timeout"`
	HeaderPageSize int           `mapstructure:"header_page_size" validate:"omitempty,gt=0" yaml:"header_page_size,omitempty"`
	DebugAssertions bool         `mapstructure:"debug_assertions" yaml:"debug_assertions,omitempty"`
}

// LoggingConfig controls logger output, mirroring internal/logger.Config.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry tracing (used by `metacachectl
// demo` and `metacachectl serve`) and Pyroscope profiling (used by
// `metacachectl serve` only).
type TelemetryConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls continuous profiling via Pyroscope.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load reads configuration from configPath (or the default search path if
// empty), falling back to defaults when no file is found, then validates
// the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := GetDefaultConfig()
		return cfg, Validate(cfg)
	}

	cfg := GetDefaultConfig()
	if err := v.Unmarshal(cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories as
// needed.
func SaveConfig(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: write %q: %w", path, err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("METACACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: read file: %w", err)
	}
	return true, nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "metacache")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "metacache")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
