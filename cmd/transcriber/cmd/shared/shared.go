// Package shared holds the flags and bootstrap steps every subcommand uses.
package shared

import (
	"context"

	"go.uber.org/zap"

	"audio-transcriber/internal/app"
	"audio-transcriber/internal/app/logging"
	"audio-transcriber/internal/config"
)

var (
	ConfigPath string
	Verbose    bool
)

// LoadConfig reads the configuration named by --config.
func LoadConfig() (*config.Config, error) {
	return config.Load(ConfigPath)
}

// NewLogger builds the process logger; --verbose forces debug output.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if Verbose {
		level = "debug"
	}
	return logging.New(cfg.Logging.Development, level)
}

// Bootstrap loads configuration, builds the logger and wires the application.
// The returned cleanup releases everything, logger included.
func Bootstrap(ctx context.Context, adjust func(*config.Config)) (*app.App, func(), error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if adjust != nil {
		adjust(cfg)
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	application, cleanup, err := app.InitializeApp(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return application, func() {
		cleanup()
		_ = logger.Sync()
	}, nil
}
