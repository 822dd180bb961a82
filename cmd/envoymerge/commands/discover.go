package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/envoymerge/discovery"
	"github.com/erraggy/envoymerge/document"
	"github.com/erraggy/envoymerge/internal/cliutil"
)

// DiscoverFlags contains flags for the discover command
type DiscoverFlags struct {
	MergeFlags
	Format string
}

// ServiceReport describes what one service directory would contribute.
type ServiceReport struct {
	Service  string   `json:"service" yaml:"service"`
	Routes   int      `json:"routes" yaml:"routes"`
	Clusters []string `json:"clusters" yaml:"clusters"`
	Files    []string `json:"files" yaml:"files"`
}

// SkippedReport names a service directory that would contribute nothing.
type SkippedReport struct {
	Service string `json:"service" yaml:"service"`
	Reason  string `json:"reason" yaml:"reason"`
}

// DiscoverReport is the structured output of the discover command.
type DiscoverReport struct {
	Base         string          `json:"base" yaml:"base"`
	BaseClusters int             `json:"base_clusters" yaml:"base_clusters"`
	BaseRoutes   int             `json:"base_routes" yaml:"base_routes"`
	HasRouteList bool            `json:"has_route_list" yaml:"has_route_list"`
	Services     []ServiceReport `json:"services" yaml:"services"`
	Skipped      []SkippedReport `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SetupDiscoverFlags creates and configures a FlagSet for the discover command.
// Returns the FlagSet and a DiscoverFlags struct with bound flag variables.
func SetupDiscoverFlags() (*flag.FlagSet, *DiscoverFlags) {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	flags := &DiscoverFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: envoymerge discover [flags] <service-dir>...\n\n")
		cliutil.Writef(fs.Output(), "List what each service directory would contribute, without merging.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  envoymerge discover -b envoy.yaml svc/users svc/billing\n")
		cliutil.Writef(fs.Output(), "  envoymerge discover --format json -b envoy.yaml svc/*\n")
	}

	return fs, flags
}

// HandleDiscover executes the discover command
func HandleDiscover(args []string) error {
	return runDiscover(args, os.Stdout, os.Stderr)
}

func runDiscover(args []string, stdout, stderr io.Writer) error {
	fs, flags := SetupDiscoverFlags()
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	logger, err := flags.logger(stderr, os.Getenv)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(fs, &flags.MergeFlags, "")
	if err != nil {
		return err
	}
	// discover never writes, whatever the file or environment says
	cfg.Output = ""
	cfg = cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return err
	}

	collector := discovery.New(
		discovery.WithBasePath(cfg.Base),
		discovery.WithItems(cfg.Items...),
		discovery.WithFolderName(cfg.FolderName),
		discovery.WithLogger(logger),
	)
	found, err := collector.Discover()
	if err != nil {
		return fmt.Errorf("discovering services: %w", err)
	}

	report := buildDiscoverReport(cfg.Base, found)
	if flags.Format != FormatText {
		return OutputStructured(stdout, report, flags.Format)
	}
	printDiscoverReport(stdout, report)
	return nil
}

func buildDiscoverReport(base string, found *discovery.Result) DiscoverReport {
	stats := found.Base.Stats()
	report := DiscoverReport{
		Base:         base,
		BaseClusters: stats.ClusterCount,
		BaseRoutes:   stats.RouteCount,
		HasRouteList: stats.HasRouteList,
		Services:     make([]ServiceReport, 0, len(found.Fragments)),
	}
	for _, frag := range found.Fragments {
		sr := ServiceReport{
			Service:  frag.Service,
			Routes:   len(frag.Routes),
			Clusters: make([]string, 0, len(frag.Clusters)),
			Files:    frag.Files,
		}
		for _, c := range frag.Clusters {
			name := document.Name(c)
			if name == "" {
				name = "<unnamed>"
			}
			sr.Clusters = append(sr.Clusters, name)
		}
		report.Services = append(report.Services, sr)
	}
	for _, s := range found.Skipped {
		report.Skipped = append(report.Skipped, SkippedReport{Service: s.Service, Reason: string(s.Reason)})
	}
	return report
}

func printDiscoverReport(w io.Writer, report DiscoverReport) {
	cliutil.Writef(w, "Base: %s (%d clusters, %d routes)\n", report.Base, report.BaseClusters, report.BaseRoutes)
	if !report.HasRouteList {
		cliutil.Writef(w, "  no virtual host route list: service routes would be skipped\n")
	}
	cliutil.Writef(w, "\nServices (%d):\n", len(report.Services))
	for _, s := range report.Services {
		cliutil.Writef(w, "  %s: %d route(s), %d cluster(s)\n", s.Service, s.Routes, len(s.Clusters))
		for _, name := range s.Clusters {
			cliutil.Writef(w, "    - %s\n", name)
		}
	}
	if len(report.Skipped) > 0 {
		cliutil.Writef(w, "\nSkipped (%d):\n", len(report.Skipped))
		for _, s := range report.Skipped {
			cliutil.Writef(w, "  %s: %s\n", s.Service, s.Reason)
		}
	}
}
