package flow

import (
	"context"
	"errors"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
)

// GenerationErrorText is written into a generation node's response when the
// generator fails. The node still completes; nothing is forwarded.
const GenerationErrorText = "Error: Could not generate response"

// Generation completes the node's instruction with its upstream texts as
// context and forwards the response to the text producers it feeds.
type Generation struct {
	Generator dispatch.Generator
}

// BuildPrompt appends every context text to the instruction, in order.
func BuildPrompt(instruction string, contexts []string) string {
	var b strings.Builder
	b.WriteString(instruction)
	for _, c := range contexts {
		b.WriteString("\n\nContext:\n")
		b.WriteString(c)
	}
	return b.String()
}

func (gen *Generation) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	logger := ctxlog.FromContext(ctx)
	if gen.Generator == nil {
		return errors.New("generation dispatcher is not configured")
	}

	prompt := BuildPrompt(n.Props.String("instruction"), upstreamTexts(ctx, g, n.ID))
	logger.Info("Generating response.", "prompt_chars", len(prompt))

	response, err := gen.Generator.Generate(ctx, prompt)
	if err != nil {
		logger.Warn("Generation failed.", "error", err)
		recordProp(ctx, logger, g, n.ID, "response", GenerationErrorText)
		return nil
	}
	recordProp(ctx, logger, g, n.ID, "response", response)

	forwarded := 0
	for _, dst := range g.ConnectionsFrom(ctx, n.ID) {
		if _, ok := g.Text(ctx, dst); !ok {
			continue
		}
		if err := g.SetText(ctx, dst, response); err != nil {
			logger.Warn("Failed to forward response.", "target", dst, "error", err)
			continue
		}
		forwarded++
	}
	logger.Debug("Response forwarded.", "targets", forwarded)
	return nil
}
