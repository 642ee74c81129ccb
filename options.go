/*
NAME
  options.go

DESCRIPTION
  options.go defines the functional-options configuration surface for
  ReadDisplaySet and WriteDisplaySet: an Option is a function that mutates
  a private settings struct, constructed via With* constructors and applied
  in order. This keeps the zero-argument call sites simple while letting
  callers opt into stricter validation or diagnostic logging as needed.

LICENSE
  See repository LICENSE.
*/

package pgs

import "github.com/go-pgs/pgs/pgslog"

// config holds the resolved settings for a single Read/WriteDisplaySet
// call, built by applying a list of Options over sane defaults.
type config struct {
	logger             pgslog.Logger
	strictObjectBounds bool
}

func newConfig(opts []Option) *config {
	c := &config{logger: pgslog.NoOp()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Read/WriteDisplaySet call.
type Option func(*config)

// WithLogger directs diagnostic tracing to l. The default is a no-op
// logger that discards everything.
func WithLogger(l pgslog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictObjectBounds rejects a display set in which a composition
// object's crop rectangle falls outside its referenced object's decoded
// dimensions. This is off by default, since several retail discs ship
// display sets that are technically out of bounds but display correctly
// because the renderer clips silently.
func WithStrictObjectBounds() Option {
	return func(c *config) { c.strictObjectBounds = true }
}
