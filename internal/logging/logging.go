// Package logging sets up the process-wide zerolog writer, matching the
// teacher's cmd/cryptorun/main.go pattern: a human-readable console writer
// when attached to a terminal, structured JSON otherwise. Library packages
// never call this; they take an injected zerolog.Logger (defaulting to
// disabled) so importing this module never has a side effect.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New builds a logger writing to w: a zerolog.ConsoleWriter if w is a
// terminal, otherwise newline-delimited JSON.
func New(w *os.File, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = w
	if term.IsTerminal(int(w.Fd())) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Disabled is the logger library packages should default to when the
// caller doesn't supply one.
func Disabled() zerolog.Logger {
	return zerolog.Nop()
}
