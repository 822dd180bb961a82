package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/envoymerge/internal/testutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// meshTree writes a base document and three service directories under a
// temp root: users (route + cluster), orders (overrides existing_cluster)
// and static (no config folder).
func meshTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "base.yaml"), testutil.BaseYAML)
	testutil.WriteService(t, root, testutil.Service{
		Name:     "users",
		Routes:   map[string]string{"public.yaml": testutil.RoutesYAML("/users")},
		Clusters: map[string]string{"users.yaml": testutil.ClustersYAML("users")},
	})
	testutil.WriteService(t, root, testutil.Service{
		Name:     "orders",
		Routes:   map[string]string{"public.yaml": testutil.RoutesYAML("/orders")},
		Clusters: map[string]string{"override.yaml": testutil.ClustersYAML("existing_cluster")},
	})
	testutil.WriteService(t, root, testutil.Service{Name: "static", Folder: "-"})
	return root
}

func TestCompileTool_Inline(t *testing.T) {
	root := meshTree(t)
	input := compileInput{
		Base:     "base.yaml",
		Items:    []string{"users", "orders", "static"},
		RootPath: root,
	}

	result, output, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, 2, output.ServiceCount)
	assert.Equal(t, 2, output.ClusterCount)
	assert.Equal(t, 3, output.RouteCount)
	assert.Equal(t, 1, output.ClustersReplaced)
	assert.Equal(t, 1, output.WarningCount)
	assert.Equal(t, "cluster_replaced", output.Warnings[0].Category)
	require.Len(t, output.Skipped, 1)
	assert.Equal(t, "no config folder", output.Skipped[0].Reason)

	assert.Contains(t, output.Document, "prefix: /users")
	assert.Contains(t, output.Document, "prefix: /orders")
	assert.Empty(t, output.WrittenTo)
	assert.Equal(t, "Merged 2 services into a document with 2 clusters and 3 routes. 1 cluster replaced. 1 service skipped. 1 warning.", output.Summary)
}

func TestCompileTool_WritesOutput(t *testing.T) {
	root := meshTree(t)
	outPath := filepath.Join(root, "merged.yaml")
	input := compileInput{
		Base:   filepath.Join(root, "base.yaml"),
		Items:  []string{filepath.Join(root, "users")},
		Output: outPath,
	}

	result, output, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, outPath, output.WrittenTo)
	assert.Empty(t, output.Document)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- name: users")
}

func TestCompileTool_RefusesSymlinkOutput(t *testing.T) {
	root := meshTree(t)
	target := filepath.Join(root, "target.yaml")
	testutil.WriteFile(t, target, "")
	link := filepath.Join(root, "link.yaml")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Base:   filepath.Join(root, "base.yaml"),
		Output: link,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestCompileTool_OutputDisabled(t *testing.T) {
	root := meshTree(t)
	saved := cfg.AllowOutput
	cfg.AllowOutput = false
	t.Cleanup(func() { cfg.AllowOutput = saved })

	result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Base:   filepath.Join(root, "base.yaml"),
		Output: filepath.Join(root, "out.yaml"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.NoFileExists(t, filepath.Join(root, "out.yaml"))
}

func TestCompileTool_Errors(t *testing.T) {
	root := meshTree(t)
	tests := []struct {
		name  string
		input compileInput
	}{
		{"missing base argument", compileInput{Items: []string{"users"}}},
		{"base does not exist", compileInput{Base: "nope.yaml", RootPath: root}},
		{"output overwrites base", compileInput{Base: "base.yaml", Output: "base.yaml", RootPath: root}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)

			text := result.Content[0].(*mcp.TextContent).Text
			assert.NotContains(t, text, root, "absolute paths must be redacted")
		})
	}
}

func TestCompileTool_RelativeBaseAbsoluteOutput(t *testing.T) {
	root := meshTree(t)
	t.Chdir(root)
	before, err := os.ReadFile(filepath.Join(root, "base.yaml"))
	require.NoError(t, err)

	result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Base:   "base.yaml",
		Items:  []string{"users"},
		Output: filepath.Join(root, "base.yaml"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	after, err := os.ReadFile(filepath.Join(root, "base.yaml"))
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCompileTool_TooManyItems(t *testing.T) {
	root := meshTree(t)
	saved := cfg.MaxItems
	cfg.MaxItems = 1
	t.Cleanup(func() { cfg.MaxItems = saved })

	result, _, err := handleCompile(context.Background(), &mcp.CallToolRequest{}, compileInput{
		Base:     "base.yaml",
		Items:    []string{"users", "orders"},
		RootPath: root,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestDiscoverTool(t *testing.T) {
	root := meshTree(t)
	input := discoverInput{
		Base:     "base.yaml",
		Items:    []string{"users", "static", "orders"},
		RootPath: root,
	}

	result, output, err := handleDiscover(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, []string{"existing_cluster"}, output.Base.Clusters)
	assert.True(t, output.Base.HasRouteList)
	assert.Equal(t, 1, output.Base.RouteCount)

	require.Len(t, output.Services, 2)
	assert.Equal(t, filepath.Join(root, "users"), output.Services[0].Service)
	assert.Equal(t, []string{"users"}, output.Services[0].Clusters)
	assert.Equal(t, 1, output.Services[0].RouteCount)
	assert.Len(t, output.Services[0].Files, 2)
	assert.Equal(t, []string{"existing_cluster"}, output.Services[1].Clusters)

	require.Len(t, output.Skipped, 1)
	assert.Equal(t, filepath.Join(root, "static"), output.Skipped[0].Service)
	assert.Equal(t, "Found 2 services contributing 2 routes and 2 clusters. 1 service skipped.", output.Summary)
}

func TestDiscoverTool_NoRouteList(t *testing.T) {
	root := meshTree(t)
	testutil.WriteFile(t, filepath.Join(root, "bare.yaml"), testutil.BaseWithoutVirtualHostYAML)

	_, output, err := handleDiscover(context.Background(), &mcp.CallToolRequest{}, discoverInput{
		Base:     "bare.yaml",
		Items:    []string{"users"},
		RootPath: root,
	})
	require.NoError(t, err)
	assert.False(t, output.Base.HasRouteList)
	assert.Contains(t, output.Summary, "routes would be dropped")
}

func TestDiscoverTool_MissingBase(t *testing.T) {
	result, _, err := handleDiscover(context.Background(), &mcp.CallToolRequest{}, discoverInput{
		Base: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
