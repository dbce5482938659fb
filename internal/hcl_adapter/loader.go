package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/botgrid/internal/config"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL flow loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and merges their blocks
// into one flow, in file then declaration order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Flow, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	var files []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range found {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				files = append(files, f)
			}
		}
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	flow := &config.Flow{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		part, err := l.decode(ctx, hclFile.Body, file)
		if err != nil {
			return nil, err
		}
		flow.Merge(part)
	}

	logger.Debug("HCL loading complete.", "nodes", len(flow.Nodes), "connectors", len(flow.Connectors))
	return flow, nil
}

// LoadSource decodes a single in-memory HCL document.
func (l *Loader) LoadSource(ctx context.Context, src []byte, filename string) (*config.Flow, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return l.decode(ctx, hclFile.Body, filename)
}

func (l *Loader) decode(ctx context.Context, body hcl.Body, file string) (*config.Flow, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}
	if len(root.Flows) > 1 {
		return nil, fmt.Errorf("file %s declares %d flow blocks, at most one is allowed", file, len(root.Flows))
	}

	flow := &config.Flow{}
	if len(root.Flows) == 1 {
		flow.Name = root.Flows[0].Name
		flow.Start = root.Flows[0].Start
	}
	for _, nb := range root.Nodes {
		props, err := bodyToProps(ctx, nb.Body, nb.ID)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		flow.Nodes = append(flow.Nodes, &config.NodeSpec{ID: nb.ID, Kind: nb.Kind, Title: nb.Title, Props: props})
	}
	for _, cb := range root.Connectors {
		flow.Connectors = append(flow.Connectors, &config.ConnectorSpec{ID: cb.ID, Start: cb.Start, End: cb.End})
	}
	return flow, nil
}
