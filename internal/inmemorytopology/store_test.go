package inmemorytopology

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/topologystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []*node.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestAddAndGetNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	testNode := node.New("a", node.KindText)

	err := s.AddNode(ctx, testNode)
	require.NoError(t, err)

	retrievedNode, ok := s.GetNode(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, testNode, retrievedNode)

	// The store holds its own copy.
	retrievedNode.Props["text"] = "mutated"
	again, _ := s.GetNode(ctx, "a")
	assert.Equal(t, "", again.Props.String("text"))
}

func TestAddNode_RejectsEmptyID(t *testing.T) {
	s := New()
	require.Error(t, s.AddNode(context.Background(), &node.Node{}))
}

func TestAddNode_ReplaceKeepsOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, node.New("a", node.KindStart)))
	require.NoError(t, s.AddNode(ctx, node.New("b", node.KindText)))

	replacement := node.New("a", node.KindText)
	replacement.Props["text"] = "hi"
	require.NoError(t, s.AddNode(ctx, replacement))

	assert.Equal(t, []string{"a", "b"}, ids(s.AllNodes(ctx)))
	got, _ := s.GetNode(ctx, "a")
	assert.Equal(t, node.KindText, got.Kind)
}

func TestRemoveNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddNode(ctx, node.New(id, node.KindStart)))
	}
	require.NoError(t, s.AddConnector(ctx, node.NewConnector("ab", "a", "b")))

	require.NoError(t, s.RemoveNode(ctx, "b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.AllNodes(ctx)))
	assert.False(t, s.HasNode(ctx, "b"))
	assert.Len(t, s.Connectors(ctx), 1, "connectors survive node removal")

	err := s.RemoveNode(ctx, "b")
	require.ErrorIs(t, err, topologystore.ErrNodeNotFound)
}

func TestConnectors_InsertionOrderAndDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddConnector(ctx, node.NewConnector("c2", "a", "b")))
	require.NoError(t, s.AddConnector(ctx, node.NewConnector("c1", "a", "b")))
	require.NoError(t, s.AddConnector(ctx, node.NewConnector("c3", "b", "")))

	var got []string
	for _, c := range s.Connectors(ctx) {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{"c2", "c1", "c3"}, got)

	require.NoError(t, s.RemoveConnector(ctx, "c1"))
	require.ErrorIs(t, s.RemoveConnector(ctx, "c1"), topologystore.ErrConnectorNotFound)
	assert.Len(t, s.Connectors(ctx), 2)
}

func TestSetProp(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, node.New("t", node.KindText)))

	require.NoError(t, s.SetProp(ctx, "t", "text", "left"))
	got, _ := s.GetNode(ctx, "t")
	assert.Equal(t, "left", got.Props.String("text"))

	require.ErrorIs(t, s.SetProp(ctx, "missing", "text", "x"), topologystore.ErrNodeNotFound)
}

func TestSnapshot_IsDetached(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, node.New("t", node.KindText)))
	require.NoError(t, s.AddConnector(ctx, node.NewConnector("c", "t", "t")))

	snap := s.Snapshot(ctx)
	working := FromSnapshot(snap)
	require.NoError(t, working.SetProp(ctx, "t", "text", "working"))
	require.NoError(t, s.AddNode(ctx, node.New("late", node.KindStart)))

	live, _ := s.GetNode(ctx, "t")
	assert.Equal(t, "", live.Props.String("text"))
	assert.False(t, working.HasNode(ctx, "late"))

	if diff := cmp.Diff(snap.Connectors, working.Connectors(ctx)); diff != "" {
		t.Errorf("working copy connectors mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_ConsistentUnderConcurrentEdits(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, node.New("root", node.KindStart)))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 500 {
			id := fmt.Sprintf("n%d", i)
			_ = s.AddNode(ctx, node.New(id, node.KindText))
			_ = s.AddConnector(ctx, node.NewConnector("c"+id, "root", id))
		}
	}()

	for range 200 {
		snap := s.Snapshot(ctx)
		present := make(map[string]bool, len(snap.Nodes))
		for _, n := range snap.Nodes {
			present[n.ID] = true
		}
		for _, c := range snap.Connectors {
			_, to, _ := c.Edge()
			require.True(t, present[to], "connector %s points at %s missing from the same snapshot", c.ID, to)
		}
	}
	wg.Wait()
}

func TestApply_SkipsMissingNodes(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.AddNode(ctx, node.New("t", node.KindText)))

	applied := s.Apply(ctx, []topologystore.Change{
		{NodeID: "t", Key: "text", Value: "first"},
		{NodeID: "gone", Key: "text", Value: "lost"},
		{NodeID: "t", Key: "text", Value: "second"},
	})

	assert.Equal(t, 2, applied)
	got, _ := s.GetNode(ctx, "t")
	assert.Equal(t, "second", got.Props.String("text"))
}
