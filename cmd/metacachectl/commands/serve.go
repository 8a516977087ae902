package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/marmos91/metacache/internal/logger"
	"github.com/marmos91/metacache/internal/telemetry"
	"github.com/marmos91/metacache/pkg/config"
	"github.com/marmos91/metacache/pkg/metacache"
	metacacheprom "github.com/marmos91/metacache/pkg/metrics/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a long-lived cache with a periodic expiry sweep and metrics endpoint",
	Long: `serve constructs a cache from the resolved configuration and keeps it
alive until interrupted, running InvalidateExpired on cfg.SweepInterval and
publishing Prometheus metrics on cfg.Metrics.Port. There is no network API
to Add/Borrow into this cache: it exists to exercise the sweeper, metrics,
and tracing paths under sustained, observable load, not to act as a shared
cache server for other processes.

While running, serve watches its config file (fsnotify via viper.WatchConfig)
and hot-reloads logging.level, logging.format, metrics.port, and
sweep_interval without a restart. cache.capacity/max_entry_size/
header_page_size cannot be hot-reloaded — they are baked into the Cache at
construction — and are ignored by the watcher.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "metacache",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown failed", logger.Err(err))
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "metacache",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("init profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown failed", logger.Err(err))
		}
	}()

	var metrics metacache.Metrics = metacache.NoopMetrics{}
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		metrics = metacacheprom.NewMetacacheMetrics(registry)
	}

	c, err := metacache.New(
		cfg.Cache.Capacity,
		cfg.Cache.MaxEntrySize,
		cfg.Cache.Timeout,
		metacache.WithLogger(logger.Logger()),
		metacache.WithTracer(telemetry.Tracer()),
		metacache.WithMetrics(metrics),
		metacache.WithHeaderPageSize(cfg.Cache.HeaderPageSize),
		metacache.WithDebugAssertions(cfg.Cache.DebugAssertions),
	)
	if err != nil {
		return fmt.Errorf("construct cache: %w", err)
	}
	defer c.Close()

	var metricsMu sync.Mutex
	var metricsServer *http.Server
	metricsPort := cfg.Metrics.Port
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(registry, metricsPort)
		defer func() {
			metricsMu.Lock()
			srv := metricsServer
			metricsMu.Unlock()
			if srv == nil {
				return
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("metacachectl serve starting",
		logger.Capacity(cfg.Cache.Capacity),
		"sweep_interval", cfg.SweepInterval,
		"metrics_enabled", cfg.Metrics.Enabled)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopWatch, err := config.Watch(GetConfigFile(), func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Logging.Level)
		logger.SetFormat(newCfg.Logging.Format)
		c.SetSweepInterval(newCfg.SweepInterval)

		if cfg.Metrics.Enabled {
			metricsMu.Lock()
			if newCfg.Metrics.Port != 0 && newCfg.Metrics.Port != metricsPort {
				logger.Info("metacachectl serve: reloading metrics endpoint",
					"old_port", metricsPort, "new_port", newCfg.Metrics.Port)
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				_ = metricsServer.Shutdown(shutdownCtx)
				cancel()
				metricsServer = startMetricsServer(registry, newCfg.Metrics.Port)
				metricsPort = newCfg.Metrics.Port
			}
			metricsMu.Unlock()
		}

		logger.Info("metacachectl serve: configuration reloaded",
			"log_level", newCfg.Logging.Level,
			"sweep_interval", newCfg.SweepInterval)
	})
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer stopWatch()

	c.RunSweeper(sigCtx, cfg.SweepInterval)

	logger.Info("metacachectl serve stopped")
	return nil
}

func startMetricsServer(registry *prometheus.Registry, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", logger.Err(err))
		}
	}()
	return srv
}
