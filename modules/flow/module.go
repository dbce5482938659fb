// Package flow provides the node actions of the canvas: one action per node
// kind, driving the robot through the configured dispatchers.
package flow

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	Dispatchers dispatch.Set
}

// New creates the module over a set of dispatchers.
func New(d dispatch.Set) *Module {
	return &Module{Dispatchers: d}
}

// Register registers an action for every node kind.
func (m *Module) Register(r *registry.Registry) {
	r.Register(node.KindStart, passive{})
	r.Register(node.KindAudioInput, passive{})
	r.Register(node.KindStatus, passive{})
	r.Register(node.KindText, passive{})
	r.Register(node.KindMovement, &Movement{Mover: m.Dispatchers.Mover})
	r.Register(node.KindSpeech, &Speech{Synthesizer: m.Dispatchers.Synthesizer, Player: m.Dispatchers.Player})
	r.Register(node.KindGeneration, &Generation{Generator: m.Dispatchers.Generator})
	r.Register(node.KindDecision, Decision{})
}

// passive is the action of nodes that only hold data or anchor a flow.
type passive struct{}

func (passive) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	ctxlog.FromContext(ctx).Debug("Nothing to do for node.")
	return nil
}

// upstreamTexts returns the current texts of the node's text-producing
// predecessors, in connector order.
func upstreamTexts(ctx context.Context, g graph.Graph, id string) []string {
	var texts []string
	for _, src := range g.ConnectionsTo(ctx, id) {
		if t, ok := g.Text(ctx, src); ok {
			texts = append(texts, t)
		}
	}
	return texts
}

// recordProp writes a result property and logs, rather than fails, when the
// write does not land.
func recordProp(ctx context.Context, logger *slog.Logger, g graph.Graph, id, key string, value any) {
	if err := g.SetProp(ctx, id, key, value); err != nil {
		logger.Warn("Failed to record node property.", "key", key, "error", err)
	}
}
