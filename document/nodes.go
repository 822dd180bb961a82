package document

import (
	"errors"
	"fmt"

	"go.yaml.in/yaml/v4"
)

// resolveAlias follows alias nodes to the node they reference.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// unwrapDocument returns the top-level content of a document node,
// or the node itself when it is not a document.
func unwrapDocument(n *yaml.Node) *yaml.Node {
	n = resolveAlias(n)
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return resolveAlias(n.Content[0])
	}
	return n
}

// MappingValue returns the value stored under key in a mapping node.
// It returns nil when n is not a mapping or the key is absent.
func MappingValue(n *yaml.Node, key string) *yaml.Node {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := resolveAlias(n.Content[i]); k != nil && k.Value == key {
			return resolveAlias(n.Content[i+1])
		}
	}
	return nil
}

// SequenceItem returns the i-th element of a sequence node, or nil when
// n is not a sequence or i is out of range.
func SequenceItem(n *yaml.Node, i int) *yaml.Node {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.SequenceNode || i < 0 || i >= len(n.Content) {
		return nil
	}
	return resolveAlias(n.Content[i])
}

// ScalarValue returns the string value of a scalar node and whether n was
// a scalar at all.
func ScalarValue(n *yaml.Node) (string, bool) {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// Name returns the `name` field of a cluster entry, or "" when the entry is
// not a mapping or carries no scalar name.
func Name(n *yaml.Node) string {
	name, _ := ScalarValue(MappingValue(n, "name"))
	return name
}

// SetMappingValue stores value under key in a mapping node, replacing an
// existing entry in place or appending a new key at the end.
func SetMappingValue(n *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := resolveAlias(n.Content[i]); k != nil && k.Value == key {
			n.Content[i+1] = value
			return
		}
	}
	n.Content = append(n.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// NewSequence returns an empty block sequence node.
func NewSequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// CloneNode returns a structurally independent copy of n. Anchors and
// aliases inside the copied subtree keep pointing at their copied targets.
func CloneNode(n *yaml.Node) *yaml.Node {
	return cloneNode(n, make(map[*yaml.Node]*yaml.Node))
}

func cloneNode(n *yaml.Node, seen map[*yaml.Node]*yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if c, ok := seen[n]; ok {
		return c
	}
	c := *n
	seen[n] = &c
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child, seen)
		}
	}
	if n.Alias != nil {
		c.Alias = cloneNode(n.Alias, seen)
	}
	return &c
}

// ErrAliasExpansion is returned by DetachNode and DetachNodes when alias
// expansion nests too deep or produces more than MaxDetachNodes nodes.
var ErrAliasExpansion = errors.New("document: alias expansion limit exceeded")

// MaxDetachNodes caps how many nodes one DetachNodes call may produce,
// counting every copy an alias expands to.
const MaxDetachNodes = 200_000

// maxDetachDepth bounds nesting, including alias hops.
const maxDetachDepth = 512

// DetachNode returns a copy of n with every alias replaced by a copy of
// its target and all anchors dropped. The result can be inserted into a
// different document without referring to anchors that document lacks.
func DetachNode(n *yaml.Node) (*yaml.Node, error) {
	out, err := DetachNodes([]*yaml.Node{n})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// DetachNodes detaches every node in ns against a single expansion budget,
// so nested anchors spread over many entries of one file are bounded as a
// whole.
func DetachNodes(ns []*yaml.Node) ([]*yaml.Node, error) {
	d := detacher{budget: MaxDetachNodes}
	out := make([]*yaml.Node, len(ns))
	for i, n := range ns {
		c, err := d.detach(n, 0)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

type detacher struct {
	budget int
}

func (d *detacher) detach(n *yaml.Node, depth int) (*yaml.Node, error) {
	if n == nil {
		return nil, nil
	}
	if depth > maxDetachDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d at line %d", ErrAliasExpansion, maxDetachDepth, n.Line)
	}
	if n.Kind == yaml.AliasNode {
		if n.Alias == nil {
			return nil, fmt.Errorf("%w: unresolved alias at line %d", ErrAliasExpansion, n.Line)
		}
		return d.detach(n.Alias, depth+1)
	}
	if d.budget--; d.budget < 0 {
		return nil, fmt.Errorf("%w: more than %d nodes", ErrAliasExpansion, MaxDetachNodes)
	}
	c := *n
	c.Anchor = ""
	c.Alias = nil
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			dc, err := d.detach(child, depth+1)
			if err != nil {
				return nil, err
			}
			c.Content[i] = dc
		}
	}
	return &c, nil
}
