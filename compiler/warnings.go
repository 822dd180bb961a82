package compiler

import (
	"fmt"
	"strings"

	"github.com/erraggy/envoymerge/document"
	"github.com/erraggy/envoymerge/internal/severity"
)

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnClusterReplaced indicates a cluster definition was overridden by a later one with the same name.
	WarnClusterReplaced WarningCategory = "cluster_replaced"
	// WarnClusterUnnamed indicates a cluster without a usable name was appended as-is.
	WarnClusterUnnamed WarningCategory = "cluster_unnamed"
	// WarnRoutesSkipped indicates a fragment's routes were dropped because the base has no route list.
	WarnRoutesSkipped WarningCategory = "routes_skipped"
)

// CompileWarning describes a non-fatal event recorded while compiling.
type CompileWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// Path is the document path of the affected list.
	Path string
	// Message is a human-readable description.
	Message string
	// Service is the service directory that triggered the warning.
	Service string
	// Line is the 1-based line of the entry in its fragment file (0 if unknown).
	Line int
	// Severity indicates warning severity.
	Severity severity.Severity
	// Context provides additional details.
	Context map[string]any
}

// String returns the warning message.
func (w *CompileWarning) String() string {
	return w.Message
}

// NewClusterReplacedWarning records that service replaced the cluster name
// previously defined by previousOwner.
func NewClusterReplacedWarning(name, previousOwner, service string, line int) *CompileWarning {
	return &CompileWarning{
		Category: WarnClusterReplaced,
		Path:     fmt.Sprintf("%s[name=%s]", document.ClusterListPath, name),
		Message:  fmt.Sprintf("cluster '%s' replaced: %s -> %s", name, previousOwner, service),
		Service:  service,
		Line:     line,
		Severity: severity.SeverityInfo,
		Context: map[string]any{
			"cluster":        name,
			"previous_owner": previousOwner,
		},
	}
}

// NewClusterUnnamedWarning records a cluster entry with no scalar name.
func NewClusterUnnamedWarning(service string, line int) *CompileWarning {
	return &CompileWarning{
		Category: WarnClusterUnnamed,
		Path:     document.ClusterListPath,
		Message:  fmt.Sprintf("cluster without a name appended from %s (line %d)", service, line),
		Service:  service,
		Line:     line,
		Severity: severity.SeverityWarning,
	}
}

// NewRoutesSkippedWarning records that count routes from service were dropped.
func NewRoutesSkippedWarning(service string, count int) *CompileWarning {
	return &CompileWarning{
		Category: WarnRoutesSkipped,
		Path:     document.RouteListPath,
		Message:  fmt.Sprintf("%d route(s) from %s skipped: base document has no route list", count, service),
		Service:  service,
		Severity: severity.SeverityWarning,
		Context: map[string]any{
			"count": count,
		},
	}
}

// CompileWarnings is a collection of CompileWarning.
type CompileWarnings []*CompileWarning

// Strings returns the warning messages.
func (ws CompileWarnings) Strings() []string {
	result := make([]string, 0, len(ws))
	for _, w := range ws {
		if w == nil {
			continue
		}
		result = append(result, w.String())
	}
	return result
}

// ByCategory filters warnings by category.
func (ws CompileWarnings) ByCategory(cat WarningCategory) CompileWarnings {
	var result CompileWarnings
	for _, w := range ws {
		if w != nil && w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}

// AtLeast filters warnings whose severity is min or higher.
func (ws CompileWarnings) AtLeast(min severity.Severity) CompileWarnings {
	var result CompileWarnings
	for _, w := range ws {
		if w != nil && w.Severity.AtLeast(min) {
			result = append(result, w)
		}
	}
	return result
}

// Summary returns a formatted summary of warnings.
func (ws CompileWarnings) Summary() string {
	msgs := ws.Strings()
	if len(msgs) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d warning(s):", len(msgs))
	for _, m := range msgs {
		sb.WriteString("\n  - ")
		sb.WriteString(m)
	}
	return sb.String()
}
