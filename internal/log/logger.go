// Package log configures structured logging for the application. All code
// logs through log/slog; this package only decides which handler backs the
// default logger.
package log

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to emit.
	Level slog.Level
	// Format selects the handler: "text" (default), "json", or "pretty"
	// (colored tint output for local development).
	Format string
}

// Setup installs the default slog logger according to the config.
func Setup(cfg Config) {
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	case "pretty":
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      cfg.Level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	}
	slog.SetDefault(slog.New(handler))
}

// SetupFromEnv installs the default logger from LOG_LEVEL and LOG_FORMAT.
func SetupFromEnv() {
	Setup(Config{Level: LevelFromEnv(), Format: os.Getenv("LOG_FORMAT")})
}

// LevelFromEnv reads LOG_LEVEL (debug, info, warn, error; default info).
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
