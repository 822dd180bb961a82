// Package severity provides the severity levels attached to compile warnings.
//
// Levels are ordered from least to most severe: Info < Warning.
package severity

// Severity indicates how much attention a compile warning deserves.
type Severity int

const (
	// SeverityInfo marks an expected outcome worth reporting, such as a
	// cluster definition overridden by a later service.
	SeverityInfo Severity = iota

	// SeverityWarning marks input that was merged in a degraded way or not
	// at all, such as routes dropped because the base has no route list.
	SeverityWarning
)

// String returns the lowercase name of the level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}
