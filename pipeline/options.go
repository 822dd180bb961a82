package pipeline

import "github.com/erraggy/envoymerge/document"

// Option configures Run and Execute.
type Option func(*runConfig)

type runConfig struct {
	logger document.Logger
}

func applyOptions(opts ...Option) *runConfig {
	rc := &runConfig{logger: document.NopLogger{}}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// WithLogger sets the logger handed to discovery and the compiler.
// A nil logger keeps the no-op default.
func WithLogger(l document.Logger) Option {
	return func(rc *runConfig) {
		if l != nil {
			rc.logger = l
		}
	}
}
