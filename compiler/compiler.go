package compiler

import (
	"fmt"

	"github.com/erraggy/envoymerge/discovery"
	"github.com/erraggy/envoymerge/document"
	"github.com/erraggy/envoymerge/mergeerrors"
	"go.yaml.in/yaml/v4"
)

// baseOwner labels clusters that came from the base document in warnings.
const baseOwner = "base"

// Compiler merges service fragments into a base document.
//
// Concurrency: a Compiler holds no per-run state and may be shared, but the
// documents and fragments passed to Compile must not be mutated concurrently.
type Compiler struct {
	logger document.Logger
}

// New creates a Compiler configured by opts.
func New(opts ...Option) *Compiler {
	c := &Compiler{logger: document.NopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stats describes what a compile run did.
type Stats struct {
	// ServicesMerged is the number of fragments applied
	ServicesMerged int
	// ClustersAdded counts clusters appended to the list
	ClustersAdded int
	// ClustersReplaced counts clusters that overwrote an existing entry
	ClustersReplaced int
	// RoutesAdded counts routes appended to the virtual host
	RoutesAdded int
	// RoutesSkipped counts routes dropped because the route list did not resolve
	RoutesSkipped int
	// ClusterCount is the size of the final cluster list
	ClusterCount int
	// RouteCount is the size of the final route list
	RouteCount int
}

// CompileResult holds the merged document and metadata about the run.
type CompileResult struct {
	// Document is the merged document. It shares no nodes with the inputs.
	Document *document.Document
	// Warnings contains non-fatal events in the order they happened
	Warnings CompileWarnings
	// Stats summarizes the merge
	Stats Stats
}

// ReplacedCount returns how many cluster definitions were overridden.
func (r *CompileResult) ReplacedCount() int {
	return r.Stats.ClustersReplaced
}

// AddWarning records w.
func (r *CompileResult) AddWarning(w *CompileWarning) {
	r.Warnings = append(r.Warnings, w)
}

// Compile merges fragments into base with New's defaults.
func Compile(base *document.Document, fragments []*discovery.ServiceFragment) (*CompileResult, error) {
	return New().Compile(base, fragments)
}

// Compile applies each fragment to a copy of base, in order.
//
// Clusters are matched by name against the current cluster list: a match is
// replaced in place, anything else is appended, so the last service to
// define a name wins while the list keeps first-seen order. Routes are
// appended to the first virtual host's route list, or dropped with a
// warning when the base has no such list.
//
// base itself is never modified. Compile fails before merging anything when
// base is absent or lacks a static_resources mapping, or when a fragment is
// nil or holds nil entries.
func (c *Compiler) Compile(base *document.Document, fragments []*discovery.ServiceFragment) (*CompileResult, error) {
	if base == nil || base.Node() == nil {
		return nil, fmt.Errorf("compiler: %w", &mergeerrors.BaseError{Message: "base document is absent"})
	}
	for i, frag := range fragments {
		if err := checkFragment(i, frag); err != nil {
			return nil, fmt.Errorf("compiler: %w", err)
		}
	}

	doc := base.Clone()
	clusters, err := resolveClusterSlot(doc)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	routes, hasRoutes := doc.RouteList()
	if !hasRoutes {
		c.logger.Debug("base document has no route list", "path", document.RouteListPath)
	}

	result := &CompileResult{Document: doc}
	owners := make(map[string]string, len(clusters.list.Content))
	for _, cl := range clusters.list.Content {
		if name := document.Name(cl); name != "" {
			owners[name] = baseOwner
		}
	}

	for _, frag := range fragments {
		log := c.logger.With("service", frag.Service)
		c.mergeClusters(result, clusters, owners, frag, log)
		if hasRoutes {
			appendRoutes(result, routes, frag)
		} else if len(frag.Routes) > 0 {
			result.Stats.RoutesSkipped += len(frag.Routes)
			result.AddWarning(NewRoutesSkippedWarning(frag.Service, len(frag.Routes)))
			log.Warn("routes skipped", "count", len(frag.Routes))
		}
		result.Stats.ServicesMerged++
		log.Debug("merged service", "routes", len(frag.Routes), "clusters", len(frag.Clusters))
	}

	result.Stats.ClusterCount = len(clusters.list.Content)
	if hasRoutes {
		result.Stats.RouteCount = len(routes.Content)
	}
	c.logger.Info("compiled document",
		"services", result.Stats.ServicesMerged,
		"clusters", result.Stats.ClusterCount,
		"routes", result.Stats.RouteCount,
		"replaced", result.Stats.ClustersReplaced)
	return result, nil
}

func (c *Compiler) mergeClusters(result *CompileResult, slot *clusterSlot, owners map[string]string, frag *discovery.ServiceFragment, log document.Logger) {
	for _, cl := range frag.Clusters {
		entry := document.CloneNode(cl)
		name := document.Name(cl)
		if name == "" {
			slot.append(entry)
			result.Stats.ClustersAdded++
			result.AddWarning(NewClusterUnnamedWarning(frag.Service, cl.Line))
			log.Warn("appended cluster without a name", "line", cl.Line)
			continue
		}

		if i := indexByName(slot.list, name); i >= 0 {
			slot.list.Content[i] = entry
			result.Stats.ClustersReplaced++
			result.AddWarning(NewClusterReplacedWarning(name, owners[name], frag.Service, cl.Line))
			log.Debug("replaced cluster", "cluster", name, "previous_owner", owners[name])
		} else {
			slot.append(entry)
			result.Stats.ClustersAdded++
		}
		owners[name] = frag.Service
	}
}

func appendRoutes(result *CompileResult, list *yaml.Node, frag *discovery.ServiceFragment) {
	for _, r := range frag.Routes {
		appendEntry(list, document.CloneNode(r))
	}
	result.Stats.RoutesAdded += len(frag.Routes)
}

// indexByName returns the position of the first entry in list named name,
// or -1.
func indexByName(list *yaml.Node, name string) int {
	for i, n := range list.Content {
		if document.Name(n) == name {
			return i
		}
	}
	return -1
}

// appendEntry adds n to list. A flow list such as "[]" is switched to block
// style so appended mappings are written one per line.
func appendEntry(list, n *yaml.Node) {
	list.Style &^= yaml.FlowStyle
	list.Content = append(list.Content, n)
}

// clusterSlot is the cluster list clusters are merged into. A list made
// for an absent or null key is attached to static_resources on the first
// append, so a base that gains no cluster is written back unchanged.
type clusterSlot struct {
	list      *yaml.Node
	resources *yaml.Node
	attached  bool
}

func (s *clusterSlot) append(n *yaml.Node) {
	if !s.attached {
		document.SetMappingValue(s.resources, "clusters", s.list)
		s.attached = true
	}
	appendEntry(s.list, n)
}

// resolveClusterSlot locates the cluster list of doc. It fails when
// static_resources is not a mapping or clusters is neither a list nor null.
func resolveClusterSlot(doc *document.Document) (*clusterSlot, error) {
	resources := doc.Lookup("static_resources")
	if resources == nil || resources.Kind != yaml.MappingNode {
		return nil, &mergeerrors.BaseError{
			Path:    doc.SourcePath,
			Message: "static_resources mapping is missing",
		}
	}
	list := document.MappingValue(resources, "clusters")
	switch {
	case list == nil || isNull(list):
		return &clusterSlot{list: document.NewSequence(), resources: resources}, nil
	case list.Kind != yaml.SequenceNode:
		return nil, &mergeerrors.BaseError{
			Path:    doc.SourcePath,
			Message: fmt.Sprintf("%s is not a list", document.ClusterListPath),
		}
	}
	return &clusterSlot{list: list, resources: resources, attached: true}, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func checkFragment(index int, frag *discovery.ServiceFragment) error {
	if frag == nil {
		return &mergeerrors.FragmentError{Index: index, Message: "fragment is absent"}
	}
	for i, n := range frag.Clusters {
		if n == nil {
			return &mergeerrors.FragmentError{Service: frag.Service, Index: index, Message: fmt.Sprintf("cluster %d is absent", i)}
		}
	}
	for i, n := range frag.Routes {
		if n == nil {
			return &mergeerrors.FragmentError{Service: frag.Service, Index: index, Message: fmt.Sprintf("route %d is absent", i)}
		}
	}
	return nil
}
