package commands

import (
	"fmt"

	"github.com/marmos91/metacache/internal/logger"
	"github.com/marmos91/metacache/pkg/config"
)

// InitLogger configures the package logger from cfg.Logging.
func InitLogger(cfg *config.Config) error {
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
