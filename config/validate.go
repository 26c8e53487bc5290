package config

import (
	"fmt"
	"strings"

	"github.com/revelaction/interlin/align"
)

// Validate checks the loaded values. Load calls it.
func (c *Config) Validate() error {
	if _, err := align.ParseHeuristics(c.Align.Heuristics(), nil, c.Align.SubstringMinLength); err != nil {
		return fmt.Errorf("align.heuristics: %w", err)
	}
	if c.Align.SubstringMinLength < 0 {
		return fmt.Errorf("align.substring_min_length must be >= 0 (got %d)", c.Align.SubstringMinLength)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must be >= 0 (got %d)", c.Pipeline.Workers)
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}

	return nil
}
