package telemetry

// Config holds OpenTelemetry tracing configuration for metacachectl demo
// and serve.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Endpoint       string // OTLP gRPC endpoint, e.g. "localhost:4317"
	Insecure       bool
	SampleRate     float64 // 0.0-1.0
}

func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "metacache",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// ProfilingConfig holds Pyroscope continuous-profiling configuration.
type ProfilingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Endpoint       string // Pyroscope server URL, e.g. "http://localhost:4040"
	ProfileTypes   []string
}

func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:        false,
		ServiceName:    "metacache",
		ServiceVersion: "dev",
		Endpoint:       "http://localhost:4040",
		ProfileTypes:   []string{"cpu", "alloc_objects", "inuse_objects"},
	}
}
