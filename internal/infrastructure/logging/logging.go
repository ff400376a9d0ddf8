package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/minsukang/tripweaver/internal/infrastructure/config"
)

// NewLogger builds the process logger from configuration
func NewLogger(cfg *config.LoggingConfig) zerolog.Logger {
	var out io.Writer
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			out = os.Stderr
		} else {
			out = f
		}
	default:
		out = os.Stdout
	}

	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Adapter bridges zerolog into the application's context logger interface
type Adapter struct {
	logger zerolog.Logger
}

func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Log emits one structured event at the given level
func (a *Adapter) Log(level, message string, fields map[string]interface{}) {
	var event *zerolog.Event
	switch strings.ToUpper(level) {
	case "DEBUG":
		event = a.logger.Debug()
	case "WARN":
		event = a.logger.Warn()
	case "ERROR":
		event = a.logger.Error()
	default:
		event = a.logger.Info()
	}
	event.Fields(fields).Msg(message)
}
