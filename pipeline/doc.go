// Package pipeline wires discovery, compilation and output into a single
// merge invocation.
//
// [LoadConfig] builds a [Config] from an optional config file, ENVOYMERGE_*
// environment variables and explicit overrides. [Run] executes it and
// returns the serialized document together with compile stats. [Execute]
// is the host-facing entry point: it reports every failure, panics
// included, as text in an [Outcome].
//
// Environment variables:
//
//	ENVOYMERGE_BASE          base document path
//	ENVOYMERGE_OUTPUT        output path (empty: not written)
//	ENVOYMERGE_ITEMS         comma separated service directories
//	ENVOYMERGE_FOLDER_NAME   config subfolder name (default "envoy")
//	ENVOYMERGE_ROOT_PATH     prefix for relative paths
package pipeline
