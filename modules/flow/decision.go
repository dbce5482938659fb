package flow

import (
	"context"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
)

// StartedText marks a text branch chosen by a decision node.
const StartedText = "started"

// Decision picks left or right from its upstream texts and marks the
// matching downstream text branch as started. Left wins when both appear.
type Decision struct{}

// Choose returns the winning side, or "" when no input names one.
func Choose(inputs []string) string {
	var sawLeft, sawRight bool
	for _, in := range inputs {
		switch strings.ToLower(strings.TrimSpace(in)) {
		case "left":
			sawLeft = true
		case "right":
			sawRight = true
		}
	}
	switch {
	case sawLeft:
		return "left"
	case sawRight:
		return "right"
	default:
		return ""
	}
}

func (Decision) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	logger := ctxlog.FromContext(ctx)
	winner := Choose(upstreamTexts(ctx, g, n.ID))
	if winner == "" {
		logger.Debug("No decision input.")
		return nil
	}

	for _, dst := range g.ConnectionsFrom(ctx, n.ID) {
		text, ok := g.Text(ctx, dst)
		if !ok || strings.ToLower(strings.TrimSpace(text)) != winner {
			continue
		}
		if err := g.SetText(ctx, dst, StartedText); err != nil {
			logger.Warn("Failed to mark branch.", "target", dst, "error", err)
		}
	}
	logger.Info("Decision made.", "winner", winner)
	return nil
}
