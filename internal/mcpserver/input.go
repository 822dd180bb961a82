package mcpserver

import (
	"fmt"

	"github.com/erraggy/envoymerge/pipeline"
)

// mergeInput holds the fields shared by the discover and compile inputs.
type mergeInput struct {
	Base       string
	Items      []string
	FolderName string
	RootPath   string
}

// config converts the input to a resolved, validated pipeline configuration.
func (in mergeInput) config(output string) (pipeline.Config, error) {
	if len(in.Items) > cfg.MaxItems {
		return pipeline.Config{}, fmt.Errorf("too many items: got %d, maximum is %d; set ENVOYMERGE_MCP_MAX_ITEMS to increase",
			len(in.Items), cfg.MaxItems)
	}
	folder := in.FolderName
	if folder == "" {
		folder = cfg.FolderName
	}
	c := pipeline.Config{
		Base:       in.Base,
		Output:     output,
		Items:      in.Items,
		FolderName: folder,
		RootPath:   in.RootPath,
	}.Resolve()
	if err := c.Validate(); err != nil {
		return pipeline.Config{}, err
	}
	return c, nil
}
