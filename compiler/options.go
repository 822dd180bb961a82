package compiler

import "github.com/erraggy/envoymerge/document"

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(l document.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}
