// Package mergeerrors provides structured error types for the envoymerge library.
//
// Import path: github.com/erraggy/envoymerge/mergeerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// so callers can tell a fatal build failure (missing base document, malformed
// fragment) apart from recoverable input problems.
//
// # Error Types
//
//   - [ConfigNotFoundError]: the base document is missing, unreadable or empty
//   - [ParseError]: YAML parsing failures and structural issues
//   - [BaseError]: the base document has no usable cluster slot
//   - [FragmentError]: a service fragment handed to the compiler is malformed
//   - [ConfigError]: invalid invocation options
//   - [OutputError]: the merged document could not be written
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrConfigNotFound]: Matches any [ConfigNotFoundError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrBase]: Matches any [BaseError]
//   - [ErrInvalidFragment]: Matches any [FragmentError]
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrOutput]: Matches any [OutputError]
//
// # Usage Examples
//
//	base, err := collector.CollectBase()
//	if errors.Is(err, mergeerrors.ErrConfigNotFound) {
//	    // abort the build
//	}
//
// Extract error details with errors.As():
//
//	var notFound *mergeerrors.ConfigNotFoundError
//	if errors.As(err, &notFound) {
//	    fmt.Printf("base document %s is unusable\n", notFound.Path)
//	}
//
// # Error Chaining
//
// Error types carrying a Cause support chaining via Unwrap(), so root causes
// such as [os.ErrNotExist] remain reachable:
//
//	if errors.Is(err, os.ErrNotExist) {
//	    // the base file does not exist at all
//	}
package mergeerrors
