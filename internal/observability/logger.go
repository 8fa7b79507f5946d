package observability

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string
	// Format is console (human readable) or json.
	Format string
	// Quiet raises the level to error regardless of Level.
	Quiet bool
}

// NewLogger creates a zerolog logger writing to out.
func NewLogger(cfg LoggingConfig, out io.Writer) zerolog.Logger {
	if strings.ToLower(cfg.Format) != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	level := parseLevel(cfg.Level)
	if cfg.Quiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// parseLevel converts a string log level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRun tags every event with the run id.
func WithRun(logger zerolog.Logger, runID string) zerolog.Logger {
	return logger.With().Str("run_id", runID).Logger()
}
