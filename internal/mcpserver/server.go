// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes envoymerge discovery and compilation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/erraggy/envoymerge"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `envoymerge MCP server: merges per-service Envoy route and cluster fragments into a base bootstrap document.

Layout: every service directory holds <folder_name>/routes/*.yaml (top-level "routes" list) and <folder_name>/clusters/*.yaml (top-level "clusters" list). Routes are appended to the first virtual host of the base; clusters replace a same-named cluster or are appended. Later items win cluster name collisions.

Use discover first to check what each service contributes, then compile.

Configuration: defaults come from ENVOYMERGE_MCP_* environment variables set in your MCP client config.
- ENVOYMERGE_MCP_FOLDER_NAME (default: envoy) - config subfolder when folder_name is omitted
- ENVOYMERGE_MCP_MAX_ITEMS (default: 500) - maximum service directories per call
- ENVOYMERGE_MCP_MAX_INLINE_SIZE (default: 10485760) - largest document returned inline
- ENVOYMERGE_MCP_ALLOW_OUTPUT (default: true) - allow compile to write files`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "envoymerge", Version: envoymerge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "discover",
		Description: "Dry run: load the base Envoy document and list what each service directory would contribute. Returns per-service route and cluster counts, cluster names and fragment files, plus the services that were skipped and why (no config folder, unreadable, empty). Nothing is merged or written.",
	}, handleDiscover)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile",
		Description: "Merge service fragments into the base Envoy document. Routes are appended to the first virtual host; clusters replace a same-named entry in place or are appended, and the last service in items wins. Returns stats, warnings (cluster_replaced, cluster_unnamed, routes_skipped) and the merged YAML inline, or writes it atomically to output when set.",
	}, handleCompile)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
