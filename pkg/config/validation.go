package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks cfg's "validate" struct tags and cross-field invariants
// that tags alone can't express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Cache.HeaderPageSize > 0 && uint64(cfg.Cache.HeaderPageSize) < 64 {
		return fmt.Errorf("config: cache.header_page_size %d is too small to hold even one bucket", cfg.Cache.HeaderPageSize)
	}
	return nil
}
