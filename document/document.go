package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/envoymerge/mergeerrors"
	"go.yaml.in/yaml/v4"
)

// Locations of the two mutable slots inside an Envoy bootstrap document.
const (
	// ClusterListPath is the dotted location of the cluster list.
	ClusterListPath = "static_resources.clusters"
	// RouteListPath is the dotted location of the route list that services append to.
	RouteListPath = "static_resources.listeners[0].filter_chains[0].filters[0].typed_config.route_config.virtual_hosts[0].routes"
)

// Document is a parsed YAML document kept as a node tree so that key order,
// comments and scalar styles survive a round trip.
//
// Concurrency: Document is not safe for concurrent mutation.
type Document struct {
	// SourcePath is the file the document was read from ("" when built in memory)
	SourcePath string

	root *yaml.Node
}

// New wraps an existing node tree. A non-document node is wrapped in a
// document node so the result marshals as a single YAML document.
func New(root *yaml.Node) *Document {
	if root != nil && root.Kind != yaml.DocumentNode {
		root = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	}
	return &Document{root: root}
}

// ParseFile reads and parses the YAML document at path.
// Missing files, unreadable files, parse errors and empty documents are
// reported as errors; ParseFile never panics.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading caller-selected config is the purpose
	if err != nil {
		return nil, fmt.Errorf("document: reading %s: %w", path, err)
	}
	doc, err := ParseBytes(data)
	if err != nil {
		var pe *mergeerrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	doc.SourcePath = path
	return doc, nil
}

// ParseReader parses a YAML document from r.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document: reading input: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a YAML document from data.
func ParseBytes(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &mergeerrors.ParseError{Message: "invalid YAML", Cause: err}
	}
	if root.Kind == 0 || unwrapDocument(&root) == nil {
		return nil, &mergeerrors.ParseError{Message: "empty document"}
	}
	return &Document{root: &root}, nil
}

// Node returns the document's top-level content node (usually a mapping).
func (d *Document) Node() *yaml.Node {
	if d == nil {
		return nil
	}
	return unwrapDocument(d.root)
}

// Lookup returns the value under key in the top-level mapping.
func (d *Document) Lookup(key string) *yaml.Node {
	return MappingValue(d.Node(), key)
}

// Clone returns a deep copy that shares no nodes with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{SourcePath: d.SourcePath, root: CloneNode(d.root)}
}

// Decode decodes the document into v using the yaml package rules.
func (d *Document) Decode(v any) error {
	if d == nil || d.root == nil {
		return errors.New("document: decode of empty document")
	}
	return d.root.Decode(v)
}

// ClusterList returns the cluster sequence node, or false when the base
// has no static_resources.clusters sequence.
func (d *Document) ClusterList() (*yaml.Node, bool) {
	list := MappingValue(d.Lookup("static_resources"), "clusters")
	if list == nil || list.Kind != yaml.SequenceNode {
		return nil, false
	}
	return list, true
}

// RouteList resolves the route sequence of the first virtual host of the
// first filter of the first listener's first filter chain. The filter's
// route configuration is looked up under typed_config, then under the
// legacy config key. It returns false when any level is absent or empty;
// nothing is ever created along the way.
func (d *Document) RouteList() (*yaml.Node, bool) {
	listener := SequenceItem(MappingValue(d.Lookup("static_resources"), "listeners"), 0)
	filter := SequenceItem(MappingValue(SequenceItem(MappingValue(listener, "filter_chains"), 0), "filters"), 0)
	filterConfig := MappingValue(filter, "typed_config")
	if filterConfig == nil {
		filterConfig = MappingValue(filter, "config")
	}
	vhost := SequenceItem(MappingValue(MappingValue(filterConfig, "route_config"), "virtual_hosts"), 0)
	routes := MappingValue(vhost, "routes")
	if routes == nil || routes.Kind != yaml.SequenceNode {
		return nil, false
	}
	return routes, true
}

// Clusters returns the cluster entries, or nil when there is no cluster list.
func (d *Document) Clusters() []*yaml.Node {
	list, ok := d.ClusterList()
	if !ok {
		return nil
	}
	return list.Content
}

// Routes returns the virtual host's route entries, or nil when the route
// list does not resolve.
func (d *Document) Routes() []*yaml.Node {
	list, ok := d.RouteList()
	if !ok {
		return nil
	}
	return list.Content
}

// ClusterNames returns the cluster names in list order. Unnamed clusters
// contribute "".
func (d *Document) ClusterNames() []string {
	clusters := d.Clusters()
	names := make([]string, 0, len(clusters))
	for _, c := range clusters {
		names = append(names, Name(c))
	}
	return names
}

// Stats summarizes the mergeable content of a document.
type Stats struct {
	ClusterCount int
	RouteCount   int
	// HasRouteList reports whether the virtual host route list resolves
	HasRouteList bool
}

// Stats returns cluster and route counts for d.
func (d *Document) Stats() Stats {
	_, hasRoutes := d.RouteList()
	return Stats{
		ClusterCount: len(d.Clusters()),
		RouteCount:   len(d.Routes()),
		HasRouteList: hasRoutes,
	}
}

// Marshal serializes d as YAML with 2-space indentation, original key order,
// and sequences written at their parent key's indentation.
func Marshal(d *Document) ([]byte, error) {
	if d == nil || d.root == nil {
		return nil, errors.New("document: cannot marshal empty document")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	enc.CompactSeqIndent()
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("document: marshaling: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: marshaling: %w", err)
	}
	return buf.Bytes(), nil
}
