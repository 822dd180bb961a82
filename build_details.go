package envoymerge

import (
	"fmt"
	"runtime"
)

// Set via ldflags at release time. Development builds keep the defaults.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Version returns the compiled version or 'dev' if run from source
func Version() string {
	return version
}

// Commit returns the short git hash the binary was built from.
func Commit() string {
	return commit
}

// BuildTime returns the RFC3339 build timestamp.
func BuildTime() string {
	return buildTime
}

// GoVersion returns the Go runtime version.
func GoVersion() string {
	return runtime.Version()
}

// UserAgent identifies envoymerge to MCP clients.
func UserAgent() string {
	return fmt.Sprintf("envoymerge/%s", version)
}

// BuildInfo returns all build metadata, one field per line.
func BuildInfo() string {
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s",
		Version(), Commit(), BuildTime(), GoVersion())
}
