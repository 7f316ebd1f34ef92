package app

import (
	"errors"
	"fmt"

	"github.com/vk/stockflow/internal/engine"
	"github.com/vk/stockflow/internal/render"
	"github.com/vk/stockflow/internal/style"
)

// DefaultRounds is used when neither the command line nor the model file says
// how many rounds to run.
const DefaultRounds = 10

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPaths []string // .hcl / .toml files or directories

	// Rounds overrides the model files' round count when set.
	Rounds    *int
	Format    render.Format
	Separator string
	Pad       bool
	Color     style.ColorMode

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Rounds != nil {
		if n := *cfg.Rounds; n < 0 || n > engine.MaxRounds {
			return nil, fmt.Errorf("rounds must be between 0 and %d, got %d", engine.MaxRounds, n)
		}
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("workers must not be negative")
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 1
	}

	if cfg.Format == "" {
		cfg.Format = render.FormatText
	}
	if _, err := render.ParseFormat(string(cfg.Format)); err != nil {
		return nil, err
	}
	if cfg.Format == render.FormatCSV {
		cfg.Separator, cfg.Pad = ",", false
	}
	if cfg.Separator == "" {
		cfg.Separator = "\t"
	}

	if cfg.Color == "" {
		cfg.Color = style.ColorAuto
	}
	if _, err := style.ParseColorMode(string(cfg.Color)); err != nil {
		return nil, err
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok {
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}
