package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/inmemorystore"
	"github.com/specialistvlad/botgrid/internal/inmemorytopology"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/stretchr/testify/require"
)

// FlowBuilder assembles an in-memory flow for tests.
type FlowBuilder struct {
	t          *testing.T
	Topology   *inmemorytopology.Store
	States     *inmemorystore.Store
	connectors int
}

// NewFlow starts an empty flow.
func NewFlow(t *testing.T) *FlowBuilder {
	t.Helper()
	return &FlowBuilder{
		t:        t,
		Topology: inmemorytopology.New(),
		States:   inmemorystore.New(),
	}
}

// Node adds a node with default properties overridden by key/value pairs.
func (b *FlowBuilder) Node(id string, kind node.Kind, kv ...any) *FlowBuilder {
	b.t.Helper()
	require.Zero(b.t, len(kv)%2, "props must be key/value pairs")
	n := node.New(id, kind)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		require.True(b.t, ok, "prop key %v is not a string", kv[i])
		n.Props[key] = kv[i+1]
	}
	require.NoError(b.t, b.Topology.AddNode(context.Background(), n))
	return b
}

// Connect adds a connector from one node to another. Either side may be
// empty to create a dangling connector.
func (b *FlowBuilder) Connect(from, to string) *FlowBuilder {
	b.t.Helper()
	b.connectors++
	c := node.NewConnector(fmt.Sprintf("c%d", b.connectors), from, to)
	require.NoError(b.t, b.Topology.AddConnector(context.Background(), c))
	return b
}

// Graph returns a graph manager over the live stores.
func (b *FlowBuilder) Graph() *graph.Manager {
	return graph.New(b.Topology, b.States)
}

// Prop reads a property of a node from the live topology.
func (b *FlowBuilder) Prop(id, key string) any {
	b.t.Helper()
	n, ok := b.Topology.GetNode(context.Background(), id)
	require.True(b.t, ok, "node %q not found", id)
	return n.Props[key]
}
