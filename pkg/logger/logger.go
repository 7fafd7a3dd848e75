// Package logger provides the build-time diagnostic logger shared by the
// compiler and the microflowgen command. It never runs as part of a
// generated inference routine.
package logger

import (
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// Log is the build-time logger used to report compiler diagnostics such as
// unsupported operators, malformed models, and generation progress.
var Log = logger.With().Str("component", "microflowgen").Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
