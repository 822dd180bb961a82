package document

import "log/slog"

// Logger receives diagnostics from discovery, the compiler and the
// pipeline. Attributes are alternating key/value pairs, as with log/slog:
//
//	logger.Debug("skipping service", "service", "svc/users", "reason", "no config folder")
//
// Nothing in envoymerge branches on logging, so any Logger, including
// NopLogger, yields the same merged document.
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	// Warn reports input that was skipped or overridden
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)
	// With returns a Logger that prepends attrs to every entry
	With(attrs ...any) Logger
}

// NopLogger drops everything. It is the default for every component.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// With returns the receiver.
func (n NopLogger) With(...any) Logger { return n }

// SlogAdapter sends Logger calls to a *slog.Logger. The CLI builds one over
// a charmbracelet/log handler; library callers can pass any handler:
//
//	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
//	c := discovery.New(discovery.WithLogger(document.NewSlogAdapter(slog.New(h))))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger, falling back to slog.Default() when nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Slog returns the wrapped logger.
func (s *SlogAdapter) Slog() *slog.Logger { return s.logger }

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.logger.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.logger.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.logger.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.logger.Error(msg, attrs...) }

// With returns an adapter over s.Slog().With(attrs...).
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(attrs...)}
}

var (
	_ Logger = NopLogger{}
	_ Logger = (*SlogAdapter)(nil)
)
