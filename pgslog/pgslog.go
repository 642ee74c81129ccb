/*
NAME
  pgslog.go

DESCRIPTION
  pgslog.go provides the small logging interface the pgs package accepts
  through its functional options, and a default implementation backed by
  zerolog. Callers that never configure a logger get silent, zero-cost
  no-op behavior.

LICENSE
  See repository LICENSE.
*/

// Package pgslog supplies an optional diagnostic logger for tracing
// malformed or unusual PGS segments and display sets as they are parsed.
// Nothing in the pgs package requires a logger; by default all tracing is
// discarded.
package pgslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the diagnostic logging interface accepted by pgs's functional
// options. Implementations must be safe for use by a single goroutine at a
// time, matching the rest of the package's single-threaded contract.
type Logger interface {
	// Debugf logs fine-grained trace information, such as an object being
	// reassembled from its fragments or split into fragments on write.
	Debugf(format string, args ...interface{})
	// Warnf logs a condition that is tolerated but notable. Package pgs
	// does not call it; the crop-byte omission quirk is tolerated without
	// logging.
	Warnf(format string, args ...interface{})
}

// noop discards everything. It is the default Logger when none is supplied.
type noop struct{}

func (noop) Debugf(string, ...interface{}) {}
func (noop) Warnf(string, ...interface{})  {}

// NoOp returns a Logger that discards all messages.
func NoOp() Logger { return noop{} }

// zlog adapts a zerolog.Logger to the Logger interface.
type zlog struct {
	l zerolog.Logger
}

// New returns a Logger backed by zerolog, writing one JSON object per line
// to w. Passing nil for w defaults to os.Stderr.
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &zlog{l: zerolog.New(w).With().Timestamp().Logger()}
}

func (z *zlog) Debugf(format string, args ...interface{}) {
	z.l.Debug().Msgf(format, args...)
}

func (z *zlog) Warnf(format string, args ...interface{}) {
	z.l.Warn().Msgf(format, args...)
}
