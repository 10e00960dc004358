// Package log builds the process-wide root logger (A2 in SPEC_FULL.md),
// generalizing the teacher's pkg/log package-registry design down to the
// single root zerolog.Logger this service actually needs: one process, one
// logger, duplexed per-job by internal/joblog.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Mode selects the root logger's encoding: "dev" prints a human-readable
// console format, anything else (in particular "prod") emits structured
// JSON, matching the teacher's pkg/log.Mode switch.
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

// Root bundles the root logger with the raw writer and level it was built
// with, so per-job loggers (internal/joblog) can duplex onto it without
// re-deriving its configuration.
type Root struct {
	Logger zerolog.Logger
	Writer io.Writer
	Level  zerolog.Level
}

// New builds the root logger at the given level and mode.
func New(mode Mode, level zerolog.Level) Root {
	var w io.Writer = os.Stderr
	if mode == ModeDev {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()
	return Root{Logger: logger, Writer: w, Level: level}
}
