package parse

import (
	"github.com/yamldoc/go-yamldoc/token"
)

type parseOpts struct {
	name      string
	locations bool
	hint      int
	onError   func(msg string, pos *token.Pos)
}

type Option func(*parseOpts)

// WithName sets the document name used in diagnostics (typically the file
// name).
func WithName(name string) Option {
	return func(o *parseOpts) { o.name = name }
}

// WithLocations makes the parser record each node's source byte offset in
// the tree, enabling file/line/column diagnostics on typed reads.
func WithLocations() Option {
	return func(o *parseOpts) { o.locations = true }
}

// WithCapacityHint pre-sizes the tree's node arena.
func WithCapacityHint(n int) Option {
	return func(o *parseOpts) { o.hint = n }
}

// WithErrorHandler installs a callback invoked on parse failure with the
// failure message and position. The handler must not try to resume the
// parse; Parse returns the error regardless.
func WithErrorHandler(f func(msg string, pos *token.Pos)) Option {
	return func(o *parseOpts) { o.onError = f }
}
