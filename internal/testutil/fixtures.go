// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erraggy/envoymerge/document"
	"go.yaml.in/yaml/v4"
)

// BaseYAML is a minimal Envoy bootstrap with one listener, one virtual host
// serving /health, and one cluster named existing_cluster.
const BaseYAML = `static_resources:
  listeners:
  - name: listener_0
    address:
      socket_address:
        address: 0.0.0.0
        port_value: 10000
    filter_chains:
    - filters:
      - name: envoy.filters.network.http_connection_manager
        typed_config:
          stat_prefix: ingress_http
          route_config:
            name: local_route
            virtual_hosts:
            - name: backend
              domains:
              - "*"
              routes:
              - match:
                  prefix: /health
  clusters:
  - name: existing_cluster
`

// BaseWithoutVirtualHostYAML has a cluster list but no route slot.
const BaseWithoutVirtualHostYAML = `static_resources:
  listeners:
  - name: listener_0
    filter_chains: []
  clusters:
  - name: existing_cluster
`

// DefaultFolder is the subfolder name services use unless told otherwise.
const DefaultFolder = "envoy"

// Service describes one service directory to materialize on disk.
type Service struct {
	// Name is the directory name under the root
	Name string
	// Folder is the config subfolder; empty means DefaultFolder, "-" means none
	Folder string
	// Routes maps file names under <folder>/routes to their contents
	Routes map[string]string
	// Clusters maps file names under <folder>/clusters to their contents
	Clusters map[string]string
}

// WriteService creates the service directory tree under root and returns
// the service directory path.
func WriteService(t *testing.T, root string, svc Service) string {
	t.Helper()

	dir := filepath.Join(root, svc.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create service directory: %v", err)
	}
	folder := svc.Folder
	if folder == "" {
		folder = DefaultFolder
	}
	if folder == "-" {
		return dir
	}

	writeAll := func(sub string, files map[string]string) {
		subDir := filepath.Join(dir, folder, sub)
		if err := os.MkdirAll(subDir, 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", subDir, err)
		}
		for name, content := range files {
			WriteFile(t, filepath.Join(subDir, name), content)
		}
	}
	writeAll("routes", svc.Routes)
	writeAll("clusters", svc.Clusters)
	return dir
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// WriteTempYAML writes content to a YAML file in a fresh temporary directory
// and returns its path.
func WriteTempYAML(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.yaml")
	WriteFile(t, path, content)
	return path
}

// RoutesYAML renders a route fragment file with one prefix route per argument.
func RoutesYAML(prefixes ...string) string {
	var b strings.Builder
	b.WriteString("routes:\n")
	for _, p := range prefixes {
		b.WriteString("- match:\n    prefix: " + p + "\n")
	}
	return b.String()
}

// ClustersYAML renders a cluster fragment file with one cluster per name.
func ClustersYAML(names ...string) string {
	var b strings.Builder
	b.WriteString("clusters:\n")
	for _, n := range names {
		b.WriteString("- name: " + n + "\n")
	}
	return b.String()
}

// AliasBombYAML renders a fragment file whose key list holds one alias to
// anchor a<levels>. Anchor a0 lists fanout scalars and every later anchor
// lists the previous one fanout times, so full expansion yields about
// fanout^(levels+1) nodes from a few hundred bytes.
func AliasBombYAML(key string, levels, fanout int) string {
	var b strings.Builder
	for level := 0; level <= levels; level++ {
		items := make([]string, fanout)
		for i := range items {
			if level == 0 {
				items[i] = "x"
			} else {
				items[i] = fmt.Sprintf("*a%d", level-1)
			}
		}
		fmt.Fprintf(&b, "a%d: &a%d [%s]\n", level, level, strings.Join(items, ", "))
	}
	fmt.Fprintf(&b, "%s:\n- *a%d\n", key, levels)
	return b.String()
}

// ParseDocument parses src or fails the test.
func ParseDocument(t *testing.T, src string) *document.Document {
	t.Helper()

	doc, err := document.ParseBytes([]byte(src))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	return doc
}

// RoutePrefixes returns match.prefix of each route in the document's virtual host.
func RoutePrefixes(doc *document.Document) []string {
	routes := doc.Routes()
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		p, _ := document.ScalarValue(document.MappingValue(document.MappingValue(r, "match"), "prefix"))
		out = append(out, p)
	}
	return out
}

// Field returns the scalar value stored under key in a mapping node.
func Field(n *yaml.Node, key string) string {
	v, _ := document.ScalarValue(document.MappingValue(n, key))
	return v
}
