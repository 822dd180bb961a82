// Package discovery finds the per-service route and cluster fragments that
// get merged into a base Envoy document.
//
// Each service directory is expected to look like this, where "envoy" is the
// configurable folder name:
//
//	svc/users/
//	  envoy/
//	    routes/
//	      public.yaml     # routes: [...]
//	    clusters/
//	      users.yaml      # clusters: [...]
//
// Discovery is best effort. A service directory that cannot be read, has no
// config folder, or yields no entries is skipped. A fragment file that does
// not parse or lacks the expected list contributes nothing, and the other
// files in the folder are still read. Only the base document is mandatory:
// [Collector.CollectBase] fails with a ConfigNotFound error when it is
// missing.
//
// Fragments come back in the order of [Collector.Items], which is also the
// precedence order used by the compiler.
package discovery
