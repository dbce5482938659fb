// Package nodestore defines the interface for storing and retrieving the
// mutable execution state of nodes: busy flags, statuses and errors.
//
// # Why Node Store Exists
//
// The node store isolates **execution state** from the **canvas structure**
// managed by topologystore. A run works against a snapshot of the canvas,
// but busy flags must be shared: the canvas shows which nodes are running,
// and a node that is already busy must refuse to start again. Keeping the
// state in its own store lets a run's working copy and the live canvas see
// the same flags, and lets another process (the canvas UI) read them when a
// shared backend such as Redis is used.
//
// # State Transitions
//
// Nodes follow this lifecycle within a run:
//
//	Idle → Busy → Succeeded OR Failed
//
// A node in a terminal state may be acquired again by a later run.
package nodestore

import (
	"context"

	"github.com/specialistvlad/botgrid/internal/node"
)

// Store is the interface for managing the execution state of nodes.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Acquire in particular
// must be atomic: of two concurrent callers for the same idle node, exactly
// one wins.
type Store interface {
	// Acquire atomically moves a node to Busy. It returns false, without
	// error, if the node is already Busy.
	//
	// Thread-safety: Must be atomic with respect to other Acquire calls.
	Acquire(ctx context.Context, id string) (bool, error)

	// SetStatus updates the execution status of a node.
	SetStatus(ctx context.Context, id string, status node.Status) error

	// GetStatus returns the current status of a node, or StatusIdle if
	// none was recorded.
	GetStatus(ctx context.Context, id string) (node.Status, error)

	// SetError records the failure of a node. A nil error clears it.
	SetError(ctx context.Context, id string, nodeErr error) error

	// GetError returns the recorded failure of a node, or nil.
	GetError(ctx context.Context, id string) (error, error)

	// Reset forgets all state recorded for a node.
	Reset(ctx context.Context, id string) error
}
