package commands

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/envoymerge/internal/cliutil"
	"github.com/erraggy/envoymerge/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: envoymerge mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the compile and discover tools over the MCP stdio transport.\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  ENVOYMERGE_MCP_FOLDER_NAME      default config folder name\n")
		cliutil.Writef(fs.Output(), "  ENVOYMERGE_MCP_MAX_ITEMS        maximum service directories per call\n")
		cliutil.Writef(fs.Output(), "  ENVOYMERGE_MCP_MAX_INLINE_SIZE  largest document returned inline, in bytes\n")
		cliutil.Writef(fs.Output(), "  ENVOYMERGE_MCP_ALLOW_OUTPUT     allow the compile tool to write files\n")
	}
	return fs
}

// HandleMCP runs the MCP server until stdin closes or the process is interrupted.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
