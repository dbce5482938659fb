package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/botgrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders a flow as HCL that Load reads back into the same flow.
// Properties are written in key order.
func Encode(flow *config.Flow) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	if flow.Name != "" || flow.Start != "" {
		name := flow.Name
		if name == "" {
			name = "default"
		}
		fb := root.AppendNewBlock("flow", []string{name}).Body()
		if flow.Start != "" {
			fb.SetAttributeValue("start", cty.StringVal(flow.Start))
		}
		root.AppendNewline()
	}

	for _, n := range flow.Nodes {
		nb := root.AppendNewBlock("node", []string{n.Kind, n.ID}).Body()
		if n.Title != "" {
			nb.SetAttributeValue("title", cty.StringVal(n.Title))
		}
		for _, k := range sortedKeys(n.Props) {
			if k == "title" {
				return nil, fmt.Errorf("node '%s': property 'title' collides with the block title", n.ID)
			}
			v, err := nativeToCty(n.Props[k])
			if err != nil {
				return nil, fmt.Errorf("node '%s', property '%s': %w", n.ID, k, err)
			}
			nb.SetAttributeValue(k, v)
		}
		root.AppendNewline()
	}

	for _, c := range flow.Connectors {
		cb := root.AppendNewBlock("connector", []string{c.ID}).Body()
		if c.Start != "" {
			cb.SetAttributeValue("start", cty.StringVal(c.Start))
		}
		if c.End != "" {
			cb.SetAttributeValue("end", cty.StringVal(c.End))
		}
		root.AppendNewline()
	}

	return hclwrite.Format(f.Bytes()), nil
}
