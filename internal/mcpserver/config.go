package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/erraggy/envoymerge/discovery"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// FolderName is the config subfolder used when a call omits folder_name.
	FolderName string
	// MaxItems caps the number of service directories per call.
	MaxItems int
	// MaxInlineSize caps the size of a document returned inline.
	MaxInlineSize int
	// AllowOutput permits tools to write files when output is set.
	AllowOutput bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from ENVOYMERGE_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		FolderName:    envFolderName("ENVOYMERGE_MCP_FOLDER_NAME", discovery.DefaultFolderName),
		MaxItems:      envInt("ENVOYMERGE_MCP_MAX_ITEMS", 500),
		MaxInlineSize: envInt("ENVOYMERGE_MCP_MAX_INLINE_SIZE", 10*1024*1024),
		AllowOutput:   envBool("ENVOYMERGE_MCP_ALLOW_OUTPUT", true),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envFolderName(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if strings.ContainsAny(v, `/\`) {
		slog.Warn("invalid folder name env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return v
}
