package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/envoymerge"
	"github.com/erraggy/envoymerge/internal/cliutil"
	"github.com/erraggy/envoymerge/pipeline"
)

// CompileFlags contains flags for the compile command
type CompileFlags struct {
	MergeFlags
	Output string
}

// SetupCompileFlags creates and configures a FlagSet for the compile command.
// Returns the FlagSet and a CompileFlags struct with bound flag variables.
func SetupCompileFlags() (*flag.FlagSet, *CompileFlags) {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	flags := &CompileFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: envoymerge compile [flags] <service-dir>...\n\n")
		cliutil.Writef(fs.Output(), "Merge per-service routes and clusters into a base Envoy document.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nMerge Rules:\n")
		cliutil.Writef(fs.Output(), "  routes     appended to the first virtual host, in service order\n")
		cliutil.Writef(fs.Output(), "  clusters   replace a same-named cluster in place, otherwise appended\n")
		cliutil.Writef(fs.Output(), "  order      later service directories win name collisions\n")
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  ENVOYMERGE_BASE, ENVOYMERGE_OUTPUT, ENVOYMERGE_ITEMS (comma separated),\n")
		cliutil.Writef(fs.Output(), "  ENVOYMERGE_FOLDER_NAME, ENVOYMERGE_ROOT_PATH, ENVOYMERGE_LOG_LEVEL\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  envoymerge compile -b envoy.yaml svc/users svc/billing\n")
		cliutil.Writef(fs.Output(), "  envoymerge compile -b envoy.yaml -o out/envoy.yaml --folder-name proxy svc/*\n")
		cliutil.Writef(fs.Output(), "  envoymerge compile --config envoymerge.yaml --root-path /srv/mesh\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Service directories without the config folder are skipped\n")
		cliutil.Writef(fs.Output(), "  - When -o is specified, the file is replaced atomically with permissions 0600\n")
	}

	return fs, flags
}

// HandleCompile executes the compile command
func HandleCompile(args []string) error {
	return runCompile(context.Background(), args, os.Stdout, os.Stderr)
}

func runCompile(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupCompileFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, err := flags.logger(stderr, os.Getenv)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(fs, &flags.MergeFlags, flags.Output)
	if err != nil {
		return err
	}
	if cfg.Base == "" {
		fs.Usage()
		return fmt.Errorf("compile command requires a base document (-b or %s_BASE)", pipeline.EnvPrefix)
	}

	result, err := pipeline.Run(ctx, cfg, pipeline.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("compiling configuration: %w", err)
	}

	// Diagnostics go to stderr so stdout stays clean for pipelining
	if !flags.Quiet {
		printCompileSummary(stderr, result)
	}

	if !result.Written {
		if _, err := stdout.Write(result.Document); err != nil {
			return fmt.Errorf("writing merged document to stdout: %w", err)
		}
	}
	return nil
}

func printCompileSummary(w io.Writer, result *pipeline.Result) {
	stats := result.Compile.Stats
	cliutil.Writef(w, "Envoy Configuration Merger\n")
	cliutil.Writef(w, "==========================\n\n")
	cliutil.Writef(w, "envoymerge version: %s\n", envoymerge.Version())
	cliutil.Writef(w, "Base: %s\n", result.Config.Base)
	cliutil.Writef(w, "Output: %s\n", cliutil.Destination(result.Config.Output))
	cliutil.Writef(w, "Services merged: %d of %d\n", stats.ServicesMerged, len(result.Config.Items))
	cliutil.Writef(w, "Clusters: %d (%d added, %d replaced)\n", stats.ClusterCount, stats.ClustersAdded, stats.ClustersReplaced)
	cliutil.Writef(w, "Routes: %d (%d added)\n", stats.RouteCount, stats.RoutesAdded)
	cliutil.Writef(w, "Total Time: %v\n\n", result.Duration)

	if len(result.Skipped) > 0 {
		cliutil.Writef(w, "Skipped (%d):\n", len(result.Skipped))
		for _, s := range result.Skipped {
			cliutil.Writef(w, "  - %s: %s\n", s.Service, s.Reason)
		}
		cliutil.Writef(w, "\n")
	}

	if warnings := result.Compile.Warnings.Strings(); len(warnings) > 0 {
		cliutil.Writef(w, "Warnings (%d):\n", len(warnings))
		for _, warning := range warnings {
			cliutil.Writef(w, "  - %s\n", warning)
		}
		cliutil.Writef(w, "\n")
	}

	cliutil.Writef(w, "Compile completed successfully!\n")
	if result.Written {
		cliutil.Writef(w, "\nOutput written to: %s\n", result.Config.Output)
	}
}
