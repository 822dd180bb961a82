// Package document reads, inspects and writes Envoy bootstrap YAML documents.
//
// Documents are kept as go.yaml.in/yaml/v4 node trees rather than decoded
// structs, so merging never reorders keys or drops fields the tool does not
// know about.
//
// # Merge slots
//
// Two locations inside a document are mutable during a merge:
//
//   - the cluster list at static_resources.clusters ([Document.ClusterList])
//   - the route list of the first virtual host of the first HTTP connection
//     manager filter ([Document.RouteList])
//
// Both accessors return an optional handle: the node plus a found flag. They
// never create missing structure.
//
// # Serialization
//
// [Marshal] writes YAML with 2-space indentation, the original key order, and
// sequences aligned with their parent key:
//
//	static_resources:
//	  clusters:
//	  - name: users
//
// # Logging
//
// [Logger] is the structured logging interface shared by the discovery,
// compiler and pipeline packages. [NopLogger] is the default and
// [NewSlogAdapter] bridges to log/slog.
package document
