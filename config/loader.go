package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when INTERLIN_CONFIG is not set.
const DefaultPath = "./interlin.yaml"

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The YAML file path is INTERLIN_CONFIG, or DefaultPath. A missing default
// file means ENV + defaults only; a missing explicit file is an error.
func Load() (*Config, error) {
	path := os.Getenv("INTERLIN_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		path = DefaultPath
	}

	return LoadFile(path, explicitPath)
}

// LoadFile is Load for a given path. When required is false a missing file
// is ignored.
func LoadFile(path string, required bool) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if required {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
