package mcpserver

import (
	"context"

	"github.com/erraggy/envoymerge/discovery"
	"github.com/erraggy/envoymerge/document"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type discoverInput struct {
	Base       string   `json:"base"                  jsonschema:"Path to the base Envoy bootstrap document"`
	Items      []string `json:"items,omitempty"       jsonschema:"Service directories in precedence order"`
	FolderName string   `json:"folder_name,omitempty" jsonschema:"Config subfolder inside each service directory (default from ENVOYMERGE_MCP_FOLDER_NAME)"`
	RootPath   string   `json:"root_path,omitempty"   jsonschema:"Prefix applied to relative base and item paths"`
}

type baseSummary struct {
	ClusterCount int      `json:"cluster_count"`
	Clusters     []string `json:"clusters,omitempty"`
	RouteCount   int      `json:"route_count"`
	HasRouteList bool     `json:"has_route_list"`
}

type serviceSummary struct {
	Service      string   `json:"service"`
	RouteCount   int      `json:"route_count"`
	ClusterCount int      `json:"cluster_count"`
	Clusters     []string `json:"clusters,omitempty"`
	Files        []string `json:"files,omitempty"`
}

type skippedService struct {
	Service string `json:"service"`
	Reason  string `json:"reason"`
}

type discoverOutput struct {
	Base     baseSummary      `json:"base"`
	Services []serviceSummary `json:"services,omitempty"`
	Skipped  []skippedService `json:"skipped,omitempty"`
	Summary  string           `json:"summary"`
}

func handleDiscover(_ context.Context, _ *mcp.CallToolRequest, input discoverInput) (*mcp.CallToolResult, discoverOutput, error) {
	merge := mergeInput{Base: input.Base, Items: input.Items, FolderName: input.FolderName, RootPath: input.RootPath}
	c, err := merge.config("")
	if err != nil {
		return errResult(err), discoverOutput{}, nil
	}

	found, err := discovery.New(
		discovery.WithBasePath(c.Base),
		discovery.WithItems(c.Items...),
		discovery.WithFolderName(c.FolderName),
	).Discover()
	if err != nil {
		return errResult(err), discoverOutput{}, nil
	}

	stats := found.Base.Stats()
	output := discoverOutput{
		Base: baseSummary{
			ClusterCount: stats.ClusterCount,
			Clusters:     found.Base.ClusterNames(),
			RouteCount:   stats.RouteCount,
			HasRouteList: stats.HasRouteList,
		},
	}

	output.Services = makeSlice[serviceSummary](len(found.Fragments))
	for _, frag := range found.Fragments {
		output.Services = append(output.Services, summarizeFragment(frag))
	}
	output.Skipped = makeSlice[skippedService](len(found.Skipped))
	for _, s := range found.Skipped {
		output.Skipped = append(output.Skipped, skippedService{Service: s.Service, Reason: string(s.Reason)})
	}
	output.Summary = buildDiscoverSummary(output)

	return nil, output, nil
}

func summarizeFragment(frag *discovery.ServiceFragment) serviceSummary {
	s := serviceSummary{
		Service:      frag.Service,
		RouteCount:   len(frag.Routes),
		ClusterCount: len(frag.Clusters),
		Files:        frag.Files,
	}
	s.Clusters = makeSlice[string](len(frag.Clusters))
	for _, cl := range frag.Clusters {
		s.Clusters = append(s.Clusters, document.Name(cl))
	}
	return s
}

func buildDiscoverSummary(output discoverOutput) string {
	routes, clusters := 0, 0
	for _, s := range output.Services {
		routes += s.RouteCount
		clusters += s.ClusterCount
	}
	summary := "Found " + formatCount(len(output.Services), "service") + " contributing " +
		formatCount(routes, "route") + " and " + formatCount(clusters, "cluster") + "."
	if len(output.Skipped) > 0 {
		summary += " " + formatCount(len(output.Skipped), "service") + " skipped."
	}
	if !output.Base.HasRouteList && routes > 0 {
		summary += " The base has no virtual host route list, so routes would be dropped."
	}
	return summary
}
