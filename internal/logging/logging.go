// Package logging builds the process-wide structured logger every
// component logs through, passing a single logger down into each
// long-lived goroutine instead of reaching for a package-global.
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds a logger writing to w at the given level. Callers that want
// the interactive-vs-piped branch should use NewDefault instead.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewDefault builds a logger for cmd/stool: a colored console writer when
// stdout is a terminal, plain JSON lines otherwise (e.g. when piped to a
// log collector).
func NewDefault(level zerolog.Level) zerolog.Logger {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}, level)
	}
	return New(os.Stdout, level)
}
