package graph

import (
	"context"

	"github.com/specialistvlad/botgrid/internal/node"
)

// Edge is a directed connection derived from a fully bound connector.
type Edge struct {
	ConnectorID string
	From        string
	To          string
}

// Graph is the interface node actions and the engine use to read and write a
// flow.
//
// # Thread-Safety
//
// Implementations MUST be thread-safe. The canvas host reads busy flags while
// a run writes them.
type Graph interface {
	// Node returns a copy of a node, or false if it does not exist.
	Node(ctx context.Context, id string) (*node.Node, bool)

	// AllNodes returns copies of all nodes in insertion order.
	AllNodes(ctx context.Context) []*node.Node

	// Edges returns every edge in connector order.
	Edges(ctx context.Context) []Edge

	// ConnectionsFrom returns the successors of a node, one entry per
	// outgoing connector, in connector order.
	//
	// Thread-safety: Must be safe to call concurrently with writes.
	ConnectionsFrom(ctx context.Context, id string) []string

	// ConnectionsTo returns the predecessors of a node, one entry per
	// incoming connector, in connector order.
	ConnectionsTo(ctx context.Context, id string) []string

	// Text returns the current text of a text-producing node. The second
	// result is false for absent nodes and kinds without a text signal.
	Text(ctx context.Context, id string) (string, bool)

	// SetText replaces the text of a text-producing node.
	SetText(ctx context.Context, id, text string) error

	// SetProp writes one property of a node.
	SetProp(ctx context.Context, id, key string, value any) error

	// Acquire marks a node busy. It returns ErrNodeBusy if the node is
	// already executing.
	Acquire(ctx context.Context, id string) error

	// MarkSucceeded releases a busy node with status Succeeded.
	MarkSucceeded(ctx context.Context, id string) error

	// MarkFailed releases a busy node with status Failed and records the error.
	MarkFailed(ctx context.Context, id string, nodeErr error) error

	// NodeStatus returns the execution status of a node.
	NodeStatus(ctx context.Context, id string) node.Status

	// NodeError returns the recorded failure of a node, or nil.
	NodeError(ctx context.Context, id string) error

	// Busy reports whether a node is executing.
	Busy(ctx context.Context, id string) bool
}
