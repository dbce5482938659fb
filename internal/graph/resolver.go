package graph

import (
	"context"

	"github.com/specialistvlad/botgrid/internal/node"
)

// ResolveEdges derives the edge list of a set of connectors, skipping
// dangling ones.
func ResolveEdges(connectors []*node.Connector) []Edge {
	edges := make([]Edge, 0, len(connectors))
	for _, c := range connectors {
		from, to, ok := c.Edge()
		if !ok {
			continue
		}
		edges = append(edges, Edge{ConnectorID: c.ID, From: from, To: to})
	}
	return edges
}

func (m *Manager) Edges(ctx context.Context) []Edge {
	return ResolveEdges(m.topology.Connectors(ctx))
}

func (m *Manager) ConnectionsFrom(ctx context.Context, id string) []string {
	var out []string
	for _, e := range m.Edges(ctx) {
		if e.From != id || !m.topology.HasNode(ctx, e.To) {
			continue
		}
		out = append(out, e.To)
	}
	return out
}

func (m *Manager) ConnectionsTo(ctx context.Context, id string) []string {
	var out []string
	for _, e := range m.Edges(ctx) {
		if e.To != id || !m.topology.HasNode(ctx, e.From) {
			continue
		}
		out = append(out, e.From)
	}
	return out
}
