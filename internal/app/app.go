package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/vk/stockflow/internal/config"
	"github.com/vk/stockflow/internal/ctxlog"
	"github.com/vk/stockflow/internal/hcl"
	"github.com/vk/stockflow/internal/style"
	"github.com/vk/stockflow/internal/toml"
)

// sourceLoader is a config.Loader that can also read in-memory files, which
// is how embedded examples are loaded.
type sourceLoader interface {
	config.Loader
	LoadBytes(ctx context.Context, data []byte, filename string) ([]*config.Model, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loaders  map[string]sourceLoader
	encoder  config.Encoder
	renderer *lipgloss.Renderer
}

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW, through the App's own isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	color := style.ShouldUseColor(cfg.Color, outW)
	logger.Debug("Output styling resolved.", "color_mode", cfg.Color, "color", color)

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loaders: map[string]sourceLoader{
			hcl.Extension:  hcl.NewLoader(),
			toml.Extension: toml.NewLoader(),
		},
		encoder:  hcl.NewEncoder(),
		renderer: style.NewRenderer(outW, color),
	}
}

// Config returns the application's configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
