package shared

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger configures zerolog with pretty console output
func SetupLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetupStructuredLogger configures zerolog for structured (JSON) output
func SetupStructuredLogger(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Level resolves a configured level name. debug forces the debug level and
// an empty or unknown name means info.
func Level(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
