// Package cli provides common CLI initialization utilities shared by
// cmd/budgetbuddy and cmd/budgetbuddy-audit.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"budgetbuddy/internal/config"
	"budgetbuddy/internal/log"
)

// SetupLogger builds the process logger at level and installs it as the
// slog default. An unknown level falls back to info with a warning.
func SetupLogger(level string, out io.Writer) *log.Logger {
	cfg := log.DefaultConfig()
	if out != nil {
		cfg.Output = out
	}
	lvl, err := log.ParseLevel(level)
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info log level", log.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, builds the process logger at
// the configured LOG_LEVEL and validates the rest. It exits the process on
// validation failure.
func LoadAndValidateConfig(out io.Writer) (*config.Config, *log.Logger) {
	cfg, logger, err := loadConfig(out)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

func loadConfig(out io.Writer) (*config.Config, *log.Logger, error) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, out)
	return cfg, logger, cfg.Validate()
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
