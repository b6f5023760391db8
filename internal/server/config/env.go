package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays MIXMINI_* variables that are set; unset ones leave the
// current value alone.
func parseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
