package log

import (
	"io"
	"os"
	"time"

	"github.com/ipfans/fxlogger"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/j0lvera/kickoff/internal/config"
)

// NewLogger creates a configured zerolog.Logger instance
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg.Debug)
}

func newLogger(out io.Writer, debug bool) zerolog.Logger {
	logWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(logWriter).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// NewFxLogger routes fx's lifecycle events through the application logger.
func NewFxLogger(logger zerolog.Logger) fxevent.Logger {
	return fxlogger.WithZerolog(logger.With().Str("component", "fx").Logger())()
}

func Module() fx.Option {
	return fx.Module(
		"log",
		fx.Provide(
			NewLogger,
		),
	)
}
