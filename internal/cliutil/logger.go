package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/erraggy/envoymerge/document"
)

// DefaultLogLevel is used when no level is given on the command line or in
// ENVOYMERGE_LOG_LEVEL.
const DefaultLogLevel = "warn"

// LogLevelEnv overrides DefaultLogLevel when --log-level is not set.
const LogLevelEnv = "ENVOYMERGE_LOG_LEVEL"

// NewLogger builds the CLI logger writing to w. Quiet mode discards
// everything below error level regardless of level.
func NewLogger(w io.Writer, level string, quiet bool) (document.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLogLevel
	}
	lvl, err := charmlog.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("cliutil: %w", err)
	}
	if quiet && lvl < charmlog.ErrorLevel {
		lvl = charmlog.ErrorLevel
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:  lvl,
		Prefix: "envoymerge",
	})
	return document.NewSlogAdapter(slog.New(handler)), nil
}
