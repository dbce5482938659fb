package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// evalContext offers a few pure string functions to property expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
			"trim":   stdlib.TrimSpaceFunc,
			"format": stdlib.FormatFunc,
			"join":   stdlib.JoinFunc,
		},
	}
}

// bodyToProps evaluates the remaining attributes of a node block into a
// property bag.
func bodyToProps(ctx context.Context, body hcl.Body, nodeID string) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("node '%s': %w", nodeID, diags)
	}

	evalCtx := evalContext()
	props := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("node '%s', property '%s': %w", nodeID, name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("node '%s', property '%s': %w", nodeID, name, err)
		}
		props[name] = native
	}

	ctxlog.FromContext(ctx).Debug("Decoded node properties.", "node_id", nodeID, "count", len(props))
	return props, nil
}
