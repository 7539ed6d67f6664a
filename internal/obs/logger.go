package obs

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger creates the process-wide configured logger.
func NewLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("PROTOREFLECT_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return log.Logger
}

// OperationLogger returns a logger event for one descriptor/registry/codec
// operation, carrying the FQN it touched and how long it took.
func OperationLogger(component, operation, fqn string, duration time.Duration) *zerolog.Event {
	return log.Debug().
		Str("component", component).
		Str("operation", operation).
		Str("fqn", fqn).
		Dur("duration", duration)
}
