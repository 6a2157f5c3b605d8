package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/vybelabs/vybe/src/config"
)

// createLogger builds the process logger. The serve command uses JSON when
// the config asks for it; CLI commands get tinted text on stderr.
func createLogger(cfg *config.Config, logLevel string) *slog.Logger {
	level := parseLogLevel(logLevel)
	if logLevel == "" && cfg != nil {
		level = parseLogLevel(cfg.Logging.Level)
	}

	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	}))
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads the merged configuration and applies CLI flag overrides.
func loadConfig(cli *CLI) (*config.Config, error) {
	loader := config.NewLoader(config.GetConfigPaths())
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if cli.APIKey != "" {
		cfg.API.APIKey = cli.APIKey
	}
	if cli.BaseURL != "" {
		cfg.API.BaseURL = cli.BaseURL
	}
	if cli.Model != "" {
		cfg.Agent.Model = cli.Model
	}
	return cfg, nil
}
