package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/erraggy/envoymerge/compiler"
	"github.com/erraggy/envoymerge/discovery"
	"github.com/erraggy/envoymerge/document"
	"github.com/erraggy/envoymerge/internal/fileutil"
	"github.com/erraggy/envoymerge/mergeerrors"
)

// Result is the outcome of a successful Run.
type Result struct {
	// Config is the resolved configuration that was run
	Config Config
	// Document is the serialized merged document
	Document []byte
	// Compile holds the merged tree, stats and warnings
	Compile *compiler.CompileResult
	// Services lists the service directories that contributed, in merge order
	Services []string
	// Skipped lists the service directories that contributed nothing
	Skipped []discovery.SkippedService
	// Written reports whether Document was written to Config.Output
	Written bool
	// Duration is the wall time of the run
	Duration time.Duration
}

// Run resolves and validates cfg, discovers fragments, compiles them into
// the base document, and writes the result to cfg.Output when set.
// The output file is replaced atomically, so a failed run never leaves a
// partial document behind. ctx is checked between phases.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	rc := applyOptions(opts...)
	start := time.Now()

	cfg = cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	rc.logger.Debug("running merge", "config", cfg.String())

	collector := discovery.New(
		discovery.WithBasePath(cfg.Base),
		discovery.WithItems(cfg.Items...),
		discovery.WithFolderName(cfg.FolderName),
		discovery.WithLogger(rc.logger),
	)
	found, err := collector.Discover()
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: canceled after discovery: %w", err)
	}
	for _, s := range found.Skipped {
		rc.logger.Info("service skipped", "service", s.Service, "reason", string(s.Reason))
	}

	compiled, err := compiler.New(compiler.WithLogger(rc.logger)).Compile(found.Base, found.Fragments)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	data, err := document.Marshal(compiled.Document)
	if err != nil {
		return nil, fmt.Errorf("pipeline: serializing result: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: canceled before output: %w", err)
	}

	result := &Result{
		Config:   cfg,
		Document: data,
		Compile:  compiled,
		Skipped:  found.Skipped,
	}
	for _, frag := range found.Fragments {
		result.Services = append(result.Services, frag.Service)
	}

	if cfg.Output != "" {
		if err := fileutil.WriteAtomic(cfg.Output, data, fileutil.OwnerReadWrite); err != nil {
			return nil, fmt.Errorf("pipeline: %w", &mergeerrors.OutputError{Path: cfg.Output, Cause: err})
		}
		result.Written = true
		rc.logger.Info("wrote merged document", "path", cfg.Output, "bytes", len(data))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Outcome is the host-facing result of Execute. Exactly one of Document
// and Err is non-empty.
type Outcome struct {
	Document string `json:"document,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Execute runs the merge and converts every failure, including panics,
// into Outcome.Err. It never panics.
func Execute(ctx context.Context, cfg Config, opts ...Option) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	result, err := Run(ctx, cfg, opts...)
	if err != nil {
		return Outcome{Err: err.Error()}
	}
	return Outcome{Document: string(result.Document)}
}
