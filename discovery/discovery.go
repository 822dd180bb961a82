package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erraggy/envoymerge/document"
	"github.com/erraggy/envoymerge/mergeerrors"
	"go.yaml.in/yaml/v4"
)

const (
	// DefaultFolderName is the config subfolder searched for in each service directory.
	DefaultFolderName = "envoy"
	// RoutesDir holds route fragment files inside the config subfolder.
	RoutesDir = "routes"
	// ClustersDir holds cluster fragment files inside the config subfolder.
	ClustersDir = "clusters"
	// FragmentExt is the only file extension read from RoutesDir and ClustersDir.
	FragmentExt = ".yaml"
)

// SkipReason explains why a service directory produced no fragment.
type SkipReason string

const (
	// SkipUnreadable means the service directory could not be listed.
	SkipUnreadable SkipReason = "unreadable"
	// SkipNoFolder means the service directory lacks the config subfolder.
	SkipNoFolder SkipReason = "no config folder"
	// SkipEmpty means the config subfolder yielded no routes and no clusters.
	SkipEmpty SkipReason = "empty"
)

// ServiceFragment holds the routes and clusters discovered for one service.
type ServiceFragment struct {
	// Service is the service directory the fragment was read from
	Service string
	// Routes are route entries in file enumeration order
	Routes []*yaml.Node
	// Clusters are cluster entries in file enumeration order
	Clusters []*yaml.Node
	// Files lists the fragment files that contributed at least one entry
	Files []string
}

// SkippedService records a service directory that contributed nothing.
type SkippedService struct {
	Service string
	Reason  SkipReason
}

// Result is the outcome of a full discovery run.
type Result struct {
	Base      *document.Document
	Fragments []*ServiceFragment
	Skipped   []SkippedService
}

// Collector discovers the base document and per-service fragments.
//
// Concurrency: Collector instances are not safe for concurrent use.
type Collector struct {
	// BasePath is the base document to load
	BasePath string
	// Items are service directories in precedence order (later wins)
	Items []string
	// FolderName is the config subfolder inside each service directory
	FolderName string

	logger document.Logger
}

// New creates a Collector configured by opts.
func New(opts ...Option) *Collector {
	c := &Collector{
		FolderName: DefaultFolderName,
		logger:     document.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CollectBase parses the base document. A missing, unreadable, unparsable
// or empty base yields a *mergeerrors.ConfigNotFoundError.
func (c *Collector) CollectBase() (*document.Document, error) {
	if c.BasePath == "" {
		return nil, fmt.Errorf("discovery: %w", &mergeerrors.ConfigNotFoundError{
			Cause: errors.New("no base document path configured"),
		})
	}
	doc, err := document.ParseFile(c.BasePath)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", &mergeerrors.ConfigNotFoundError{Path: c.BasePath, Cause: err})
	}
	c.logger.Debug("loaded base document", "path", c.BasePath)
	return doc, nil
}

// Collect returns one fragment per service directory that contributed
// routes or clusters, in Items order. Unreadable directories, directories
// without the config subfolder, and empty subfolders are skipped silently.
func (c *Collector) Collect() []*ServiceFragment {
	fragments, _ := c.collectAll()
	return fragments
}

// Discover loads the base document and then collects fragments. When the
// base cannot be loaded no directory is scanned.
func (c *Collector) Discover() (*Result, error) {
	base, err := c.CollectBase()
	if err != nil {
		return nil, err
	}
	fragments, skipped := c.collectAll()
	return &Result{Base: base, Fragments: fragments, Skipped: skipped}, nil
}

func (c *Collector) collectAll() ([]*ServiceFragment, []SkippedService) {
	fragments := make([]*ServiceFragment, 0, len(c.Items))
	var skipped []SkippedService
	for _, item := range c.Items {
		frag, reason := c.collectService(item)
		if reason != "" {
			c.logger.Debug("skipping service", "service", item, "reason", string(reason))
			skipped = append(skipped, SkippedService{Service: item, Reason: reason})
			continue
		}
		c.logger.Debug("discovered service",
			"service", item, "routes", len(frag.Routes), "clusters", len(frag.Clusters))
		fragments = append(fragments, frag)
	}
	return fragments, skipped
}

func (c *Collector) collectService(dir string) (*ServiceFragment, SkipReason) {
	listing, err := ReadDirectory(dir)
	if err != nil {
		return nil, SkipUnreadable
	}
	if !listing.HasFolder(c.FolderName) {
		return nil, SkipNoFolder
	}

	root := filepath.Join(dir, c.FolderName)
	frag := &ServiceFragment{Service: dir}
	var files []string
	frag.Routes, files = c.readEntries(filepath.Join(root, RoutesDir), "routes")
	frag.Files = append(frag.Files, files...)
	frag.Clusters, files = c.readEntries(filepath.Join(root, ClustersDir), "clusters")
	frag.Files = append(frag.Files, files...)

	if len(frag.Routes) == 0 && len(frag.Clusters) == 0 {
		return nil, SkipEmpty
	}
	return frag, ""
}

// readEntries concatenates the key list of every fragment file in dir.
// A missing dir or a bad file contributes nothing.
func (c *Collector) readEntries(dir, key string) ([]*yaml.Node, []string) {
	listing, err := ReadDirectory(dir)
	if err != nil {
		return nil, nil
	}

	var entries []*yaml.Node
	var files []string
	for _, name := range listing.Files {
		if !strings.HasSuffix(name, FragmentExt) {
			continue
		}
		path := filepath.Join(dir, name)
		found, err := readFragmentFile(path, key)
		if err != nil {
			c.logger.Warn("ignoring fragment file", "path", path, "error", err)
			continue
		}
		if len(found) > 0 {
			entries = append(entries, found...)
			files = append(files, path)
		}
	}
	return entries, files
}

// readFragmentFile returns the entries of the top-level key sequence in the
// file at path, detached from the file's anchors. A file whose aliases
// expand past document.MaxDetachNodes is rejected as a whole.
func readFragmentFile(path, key string) ([]*yaml.Node, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		return nil, err
	}
	list := doc.Lookup(key)
	if list == nil {
		return nil, &mergeerrors.ParseError{Path: path, Message: fmt.Sprintf("no top-level %q list", key)}
	}
	if list.Kind != yaml.SequenceNode {
		return nil, &mergeerrors.ParseError{
			Path: path, Line: list.Line, Column: list.Column,
			Message: fmt.Sprintf("%q is not a list", key),
		}
	}
	entries, err := document.DetachNodes(list.Content)
	if err != nil {
		return nil, &mergeerrors.ParseError{Path: path, Line: list.Line, Column: list.Column, Message: "expanding aliases", Cause: err}
	}
	return entries, nil
}
