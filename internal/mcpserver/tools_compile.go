package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/erraggy/envoymerge/internal/pathutil"
	"github.com/erraggy/envoymerge/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type compileInput struct {
	Base       string   `json:"base"                  jsonschema:"Path to the base Envoy bootstrap document"`
	Items      []string `json:"items,omitempty"       jsonschema:"Service directories in precedence order; later services win cluster name collisions"`
	FolderName string   `json:"folder_name,omitempty" jsonschema:"Config subfolder inside each service directory (default from ENVOYMERGE_MCP_FOLDER_NAME)"`
	RootPath   string   `json:"root_path,omitempty"   jsonschema:"Prefix applied to relative base, output and item paths"`
	Output     string   `json:"output,omitempty"      jsonschema:"File path to write the merged document. If omitted the result is returned inline."`
}

type compileWarning struct {
	Category string `json:"category"`
	Service  string `json:"service,omitempty"`
	Message  string `json:"message"`
}

type compileOutput struct {
	ServiceCount     int              `json:"service_count"`
	Services         []string         `json:"services,omitempty"`
	Skipped          []skippedService `json:"skipped,omitempty"`
	ClusterCount     int              `json:"cluster_count"`
	RouteCount       int              `json:"route_count"`
	ClustersAdded    int              `json:"clusters_added"`
	ClustersReplaced int              `json:"clusters_replaced"`
	RoutesAdded      int              `json:"routes_added"`
	RoutesSkipped    int              `json:"routes_skipped"`
	WarningCount     int              `json:"warning_count"`
	Warnings         []compileWarning `json:"warnings,omitempty"`
	WrittenTo        string           `json:"written_to,omitempty"`
	Document         string           `json:"document,omitempty"`
	Summary          string           `json:"summary"`
}

func handleCompile(ctx context.Context, _ *mcp.CallToolRequest, input compileInput) (*mcp.CallToolResult, compileOutput, error) {
	merge := mergeInput{Base: input.Base, Items: input.Items, FolderName: input.FolderName, RootPath: input.RootPath}
	c, err := merge.config(input.Output)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	if c.Output != "" {
		if !cfg.AllowOutput {
			return errResult(errors.New("writing output is disabled; unset ENVOYMERGE_MCP_ALLOW_OUTPUT or omit output")), compileOutput{}, nil
		}
		cleanPath, pathErr := pathutil.SanitizeOutputPath(c.Output)
		if pathErr != nil {
			return errResult(fmt.Errorf("invalid output path: %w", pathErr)), compileOutput{}, nil
		}
		c.Output = cleanPath
	}

	result, err := pipeline.Run(ctx, c)
	if err != nil {
		return errResult(err), compileOutput{}, nil
	}

	stats := result.Compile.Stats
	output := compileOutput{
		ServiceCount:     len(result.Services),
		Services:         result.Services,
		ClusterCount:     stats.ClusterCount,
		RouteCount:       stats.RouteCount,
		ClustersAdded:    stats.ClustersAdded,
		ClustersReplaced: stats.ClustersReplaced,
		RoutesAdded:      stats.RoutesAdded,
		RoutesSkipped:    stats.RoutesSkipped,
		WarningCount:     len(result.Compile.Warnings),
	}

	output.Skipped = makeSlice[skippedService](len(result.Skipped))
	for _, s := range result.Skipped {
		output.Skipped = append(output.Skipped, skippedService{Service: s.Service, Reason: string(s.Reason)})
	}
	output.Warnings = makeSlice[compileWarning](len(result.Compile.Warnings))
	for _, w := range result.Compile.Warnings {
		output.Warnings = append(output.Warnings, compileWarning{
			Category: string(w.Category),
			Service:  w.Service,
			Message:  w.Message,
		})
	}

	if result.Written {
		output.WrittenTo = c.Output
	} else {
		if len(result.Document) > cfg.MaxInlineSize {
			return errResult(fmt.Errorf("merged document is %d bytes, over the inline limit of %d; set output to write it to a file",
				len(result.Document), cfg.MaxInlineSize)), compileOutput{}, nil
		}
		output.Document = string(result.Document)
	}
	output.Summary = buildCompileSummary(output)

	return nil, output, nil
}

func buildCompileSummary(output compileOutput) string {
	summary := "Merged " + formatCount(output.ServiceCount, "service") + " into a document with " +
		formatCount(output.ClusterCount, "cluster") + " and " + formatCount(output.RouteCount, "route") + "."

	if output.ClustersReplaced > 0 {
		summary += " " + formatCount(output.ClustersReplaced, "cluster") + " replaced."
	}
	if len(output.Skipped) > 0 {
		summary += " " + formatCount(len(output.Skipped), "service") + " skipped."
	}
	if output.WarningCount > 0 {
		summary += " " + formatCount(output.WarningCount, "warning") + "."
	}
	if output.WrittenTo != "" {
		summary += " Written to " + output.WrittenTo + "."
	}

	return summary
}
