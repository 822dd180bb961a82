package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/envoymerge/discovery"
	"github.com/erraggy/envoymerge/mergeerrors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key to form its
// environment variable, e.g. ENVOYMERGE_FOLDER_NAME.
const EnvPrefix = "ENVOYMERGE"

// Configuration keys, shared by config files, environment and overrides.
const (
	KeyBase       = "base"
	KeyOutput     = "output"
	KeyItems      = "items"
	KeyFolderName = "folder_name"
	KeyRootPath   = "root_path"
)

// Hyphenated spellings accepted in config files and overrides for the
// underscore keys.
const (
	AliasFolderName = "folder-name"
	AliasRootPath   = "root-path"
)

// Config describes one merge invocation.
type Config struct {
	// Base is the base Envoy document
	Base string `json:"base" mapstructure:"base"`
	// Output is where the merged document is written; empty means not written
	Output string `json:"output,omitempty" mapstructure:"output"`
	// Items are service directories in precedence order (later wins)
	Items []string `json:"items" mapstructure:"items"`
	// FolderName is the config subfolder inside each service directory
	FolderName string `json:"folder_name" mapstructure:"folder_name"`
	// RootPath prefixes every relative Base, Output and Items path
	RootPath string `json:"root_path,omitempty" mapstructure:"root_path"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Items:      []string{},
		FolderName: discovery.DefaultFolderName,
	}
}

// Resolve returns a copy of c with RootPath applied to every relative path
// and empty items dropped. Absolute paths are kept as given. The copy has
// an empty RootPath, so resolving it again changes nothing.
func (c Config) Resolve() Config {
	out := c
	out.Base = c.join(c.Base)
	out.Output = c.join(c.Output)
	out.Items = make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if item = strings.TrimSpace(item); item != "" {
			out.Items = append(out.Items, c.join(item))
		}
	}
	if out.FolderName == "" {
		out.FolderName = discovery.DefaultFolderName
	}
	out.RootPath = ""
	return out
}

func (c Config) join(path string) string {
	if path == "" || c.RootPath == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.RootPath, path)
}

// Validate reports the first problem with c. Zero items is valid and
// yields the base document unchanged.
func (c Config) Validate() error {
	if c.Base == "" {
		return &mergeerrors.ConfigError{Option: KeyBase, Message: "a base document is required"}
	}
	if c.FolderName != "" && strings.ContainsAny(c.FolderName, `/\`) {
		return &mergeerrors.ConfigError{
			Option:  KeyFolderName,
			Value:   c.FolderName,
			Message: "must be a single directory name",
		}
	}
	if c.Output != "" && samePath(c.Output, c.Base) {
		return &mergeerrors.ConfigError{
			Option:  KeyOutput,
			Value:   c.Output,
			Message: "output must not overwrite the base document",
		}
	}
	return nil
}

// samePath reports whether a and b name the same file, comparing absolute
// paths and, when both exist, file identity.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	if absA == absB {
		return true
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// LoadOptions controls where LoadConfig reads settings from.
type LoadOptions struct {
	// ConfigFile is an optional YAML, JSON or TOML file with Config keys
	ConfigFile string
	// Overrides take precedence over the file and the environment, keyed by the Key constants
	Overrides map[string]any
}

// LoadConfig merges defaults, the optional config file, ENVOYMERGE_*
// environment variables and opts.Overrides, in increasing precedence.
// ENVOYMERGE_ITEMS is a comma separated list.
func LoadConfig(opts LoadOptions) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	defaults := DefaultConfig()
	v.SetDefault(KeyBase, defaults.Base)
	v.SetDefault(KeyOutput, defaults.Output)
	v.SetDefault(KeyItems, defaults.Items)
	v.SetDefault(KeyFolderName, defaults.FolderName)
	v.SetDefault(KeyRootPath, defaults.RootPath)
	for _, key := range []string{KeyBase, KeyOutput, KeyItems, KeyFolderName, KeyRootPath} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, &mergeerrors.ConfigError{Option: key, Message: "binding environment", Cause: err}
		}
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return Config{}, &mergeerrors.ConfigError{
				Option: "config", Value: opts.ConfigFile,
				Message: "config file not found", Cause: err,
			}
		}
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &mergeerrors.ConfigError{
				Option: "config", Value: opts.ConfigFile,
				Message: "reading config file", Cause: err,
			}
		}
	}

	// registered after the file is read so hyphenated file keys move to the real key
	v.RegisterAlias(AliasFolderName, KeyFolderName)
	v.RegisterAlias(AliasRootPath, KeyRootPath)

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, &mergeerrors.ConfigError{Message: "decoding configuration", Cause: err}
	}
	if cfg.FolderName == "" {
		cfg.FolderName = discovery.DefaultFolderName
	}
	return cfg, nil
}

// String summarizes c for log lines.
func (c Config) String() string {
	return fmt.Sprintf("base=%s output=%s items=%d folder=%s root=%s",
		c.Base, c.Output, len(c.Items), c.FolderName, c.RootPath)
}
