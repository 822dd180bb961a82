// Package envoymerge assembles an Envoy bootstrap configuration from a base
// document and route and cluster fragments owned by individual services.
//
// # Overview
//
// A platform team keeps one base document with listeners, the HTTP
// connection manager and shared clusters. Each service directory carries its
// own fragments:
//
//	svc/users/envoy/routes/*.yaml     routes: [...]
//	svc/users/envoy/clusters/*.yaml   clusters: [...]
//
// The merge runs in two phases:
//
//   - discovery: finds and parses fragments for an ordered list of service
//     directories, skipping anything missing or malformed
//   - compiler: appends routes to the first virtual host and replaces or
//     appends clusters by name, so the last service to define a cluster wins
//
// The pipeline package wires both phases to configuration loading and
// atomic output, and cmd/envoymerge exposes them as a CLI and an MCP server.
//
// # Quick Start
//
//	result, err := pipeline.Run(ctx, pipeline.Config{
//	    Base:  "envoy/base.yaml",
//	    Items: []string{"svc/users", "svc/orders"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Document)
//
// The document package keeps YAML as a node tree, so key order, quoting
// and comments of the base survive the merge. Output uses two-space
// indentation with sequences aligned to their parent key.
//
// # Errors
//
// All typed errors live in package mergeerrors and support errors.Is
// against its sentinels (ErrConfigNotFound, ErrBase, ErrInvalidFragment,
// ErrConfig, ErrOutput, ErrParse).
package envoymerge
