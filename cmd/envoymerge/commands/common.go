// Package commands provides CLI command handlers for envoymerge.
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/envoymerge/document"
	"github.com/erraggy/envoymerge/internal/cliutil"
	"github.com/erraggy/envoymerge/pipeline"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w in the specified format (json or yaml).
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// MergeFlags are the flags shared by every command that loads a merge
// configuration.
type MergeFlags struct {
	Base       string
	FolderName string
	RootPath   string
	ConfigFile string
	Quiet      bool
	LogLevel   string
}

// flagKeys maps flag names to pipeline configuration keys.
var flagKeys = map[string]string{
	"b":           pipeline.KeyBase,
	"base":        pipeline.KeyBase,
	"o":           pipeline.KeyOutput,
	"output":      pipeline.KeyOutput,
	"folder-name": pipeline.KeyFolderName,
	"root-path":   pipeline.KeyRootPath,
}

func (m *MergeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&m.Base, "b", "", "base Envoy document")
	fs.StringVar(&m.Base, "base", "", "base Envoy document")
	fs.StringVar(&m.FolderName, "folder-name", "", "config folder inside each service directory (default \"envoy\")")
	fs.StringVar(&m.RootPath, "root-path", "", "directory that relative paths are resolved against")
	fs.StringVar(&m.ConfigFile, "config", "", "optional config file (yaml, json or toml)")
	fs.BoolVar(&m.Quiet, "q", false, "quiet mode: suppress diagnostic messages (for pipelining)")
	fs.BoolVar(&m.Quiet, "quiet", false, "quiet mode: suppress diagnostic messages (for pipelining)")
	fs.StringVar(&m.LogLevel, "log-level", "", "log level: debug, info, warn, error (default $"+cliutil.LogLevelEnv+" or \"warn\")")
}

// value returns what the flag called name was set to.
func (m *MergeFlags) value(name string, output string) string {
	switch flagKeys[name] {
	case pipeline.KeyBase:
		return m.Base
	case pipeline.KeyOutput:
		return output
	case pipeline.KeyFolderName:
		return m.FolderName
	case pipeline.KeyRootPath:
		return m.RootPath
	}
	return ""
}

// loadConfig merges the config file, the environment and every flag that
// was set explicitly. Positional arguments replace the configured items.
func loadConfig(fs *flag.FlagSet, m *MergeFlags, output string) (pipeline.Config, error) {
	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = m.value(f.Name, output)
		}
	})
	if fs.NArg() > 0 {
		overrides[pipeline.KeyItems] = fs.Args()
	}

	cfg, err := pipeline.LoadConfig(pipeline.LoadOptions{
		ConfigFile: m.ConfigFile,
		Overrides:  overrides,
	})
	if err != nil {
		return pipeline.Config{}, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// logger builds the diagnostic logger for m, reading the level from the
// environment when --log-level is not set.
func (m *MergeFlags) logger(w io.Writer, getenv func(string) string) (document.Logger, error) {
	level := m.LogLevel
	if level == "" {
		level = getenv(cliutil.LogLevelEnv)
	}
	return cliutil.NewLogger(w, level, m.Quiet)
}
