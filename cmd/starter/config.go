package main

import (
	"os"

	"github.com/vango-dev/starter/internal/config"
)

// loadConfig reads starter.json from dir, falling back to defaults, and
// applies environment overrides.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
