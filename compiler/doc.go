// Package compiler merges per-service route and cluster fragments into a
// base Envoy bootstrap document.
//
// # Merge rules
//
// Fragments are applied in order. For each fragment:
//
//   - every cluster whose name matches an entry already in
//     static_resources.clusters replaces that entry in place; other clusters
//     are appended. The later service wins and list positions are stable.
//   - every route is appended to the routes of the first virtual host of the
//     first listener's HTTP connection manager. When the base has no such
//     list the routes are dropped and a [WarnRoutesSkipped] warning is
//     recorded. The compiler never invents listeners or virtual hosts.
//
// The base document is copied before merging and fragment entries are copied
// as they are inserted, so callers can reuse both afterwards.
//
// # Example
//
//	res, err := discovery.New(
//	    discovery.WithBasePath("envoy.yaml"),
//	    discovery.WithItems("svc/users", "svc/orders"),
//	).Discover()
//	if err != nil {
//	    return err
//	}
//	out, err := compiler.Compile(res.Base, res.Fragments)
//	if err != nil {
//	    return err
//	}
//	data, err := document.Marshal(out.Document)
package compiler
