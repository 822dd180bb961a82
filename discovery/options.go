package discovery

import "github.com/erraggy/envoymerge/document"

// Option configures a Collector.
type Option func(*Collector)

// WithBasePath sets the base document path.
func WithBasePath(path string) Option {
	return func(c *Collector) {
		c.BasePath = path
	}
}

// WithItems sets the service directories, in precedence order.
func WithItems(items ...string) Option {
	return func(c *Collector) {
		c.Items = append([]string(nil), items...)
	}
}

// WithFolderName overrides DefaultFolderName. An empty name keeps the default.
func WithFolderName(name string) Option {
	return func(c *Collector) {
		if name != "" {
			c.FolderName = name
		}
	}
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(l document.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}
