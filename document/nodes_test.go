package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestMappingValue(t *testing.T) {
	doc := mustParse(t, "a:\n  b: c\nlist:\n- x\n")

	assert.Equal(t, "c", MappingValue(MappingValue(doc.Node(), "a"), "b").Value)
	assert.Nil(t, MappingValue(doc.Node(), "missing"))
	assert.Nil(t, MappingValue(MappingValue(doc.Node(), "list"), "a"), "sequence is not a mapping")
	assert.Nil(t, MappingValue(nil, "a"))
}

func TestSequenceItem(t *testing.T) {
	doc := mustParse(t, "list:\n- x\n- y\n")
	list := MappingValue(doc.Node(), "list")

	assert.Equal(t, "y", SequenceItem(list, 1).Value)
	assert.Nil(t, SequenceItem(list, 2))
	assert.Nil(t, SequenceItem(list, -1))
	assert.Nil(t, SequenceItem(doc.Node(), 0))
}

func TestName(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"named", "name: svc1\ntype: STATIC\n", "svc1"},
		{"unnamed", "type: STATIC\n", ""},
		{"name not scalar", "name:\n  nested: true\n", ""},
		{"not a mapping", "- a\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(mustParse(t, tt.src).Node()))
		})
	}
}

func TestAliasesResolve(t *testing.T) {
	doc := mustParse(t, "defaults: &d\n  name: shared\nclusters:\n- *d\n")
	clusters := MappingValue(doc.Node(), "clusters")
	assert.Equal(t, "shared", Name(SequenceItem(clusters, 0)))
}

func TestSetMappingValue(t *testing.T) {
	doc := mustParse(t, "a: 1\nb: 2\n")
	SetMappingValue(doc.Node(), "a", &yaml.Node{Kind: yaml.ScalarNode, Value: "10"})
	SetMappingValue(doc.Node(), "c", &yaml.Node{Kind: yaml.ScalarNode, Value: "3"})

	out, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "a: 10\nb: 2\nc: 3\n", string(out))
}

func TestCloneNode(t *testing.T) {
	doc := mustParse(t, "base: &b\n  v: 1\nref: *b\n")
	clone := CloneNode(doc.Node())

	MappingValue(clone, "base").Content[1].Value = "2"
	assert.Equal(t, "1", MappingValue(MappingValue(doc.Node(), "base"), "v").Value)
	assert.Equal(t, "2", MappingValue(MappingValue(clone, "ref"), "v").Value, "alias follows its cloned anchor")
	assert.Nil(t, CloneNode(nil))
}

func TestDetachNode(t *testing.T) {
	doc := mustParse(t, "base: &b\n  v: 1\nroutes:\n- *b\n")
	detached, err := DetachNode(SequenceItem(MappingValue(doc.Node(), "routes"), 0))
	require.NoError(t, err)
	require.NotNil(t, detached)

	assert.Equal(t, yaml.MappingNode, detached.Kind)
	assert.Empty(t, detached.Anchor)

	out, err := Marshal(New(detached))
	require.NoError(t, err)
	assert.Equal(t, "v: 1\n", string(out))
}

func TestDetachNodes_AliasExpansionLimit(t *testing.T) {
	// each anchor lists the previous one ten times: 10^8 nodes when expanded
	var src strings.Builder
	src.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 7; i++ {
		prev := fmt.Sprintf("*a%d", i-1)
		fmt.Fprintf(&src, "a%d: &a%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", "))
	}
	src.WriteString("routes:\n- *a7\n- match: {prefix: /ok}\n")
	doc := mustParse(t, src.String())

	out, err := DetachNodes(MappingValue(doc.Node(), "routes").Content)
	require.ErrorIs(t, err, ErrAliasExpansion)
	assert.Nil(t, out)

	_, err = DetachNode(MappingValue(doc.Node(), "a3"))
	assert.NoError(t, err, "ten thousand nodes fit the budget")
}

func TestDetachNodes_SharedBudget(t *testing.T) {
	// a3 alone expands to about 11k nodes; twenty copies exceed the budget together
	var src strings.Builder
	src.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= 3; i++ {
		prev := fmt.Sprintf("*a%d", i-1)
		fmt.Fprintf(&src, "a%d: &a%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(prev+", ", 10), ", "))
	}
	src.WriteString("routes:\n")
	for range 20 {
		src.WriteString("- *a3\n")
	}
	doc := mustParse(t, src.String())
	routes := MappingValue(doc.Node(), "routes").Content

	for _, r := range routes {
		_, err := DetachNode(r)
		require.NoError(t, err)
	}
	_, err := DetachNodes(routes)
	assert.ErrorIs(t, err, ErrAliasExpansion)
}

func TestDetachNode_DepthLimit(t *testing.T) {
	src := "routes:\n- " + strings.Repeat("[", 600) + "x" + strings.Repeat("]", 600) + "\n"
	doc := mustParse(t, src)

	_, err := DetachNode(SequenceItem(MappingValue(doc.Node(), "routes"), 0))
	require.ErrorIs(t, err, ErrAliasExpansion)
	assert.Contains(t, err.Error(), "nesting deeper than")
}

func TestDetachNode_KeepsMappingPairs(t *testing.T) {
	doc := mustParse(t, "v: &v {a: 1}\nroutes:\n- {match: *v, route: {cluster: c}}\n")

	detached, err := DetachNode(SequenceItem(MappingValue(doc.Node(), "routes"), 0))
	require.NoError(t, err)
	require.Len(t, detached.Content, 4)
	assert.Equal(t, "1", MappingValue(MappingValue(detached, "match"), "a").Value)
	assert.Equal(t, "c", MappingValue(MappingValue(detached, "route"), "cluster").Value)
}
