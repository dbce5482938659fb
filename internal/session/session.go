// Package session defines the interfaces for creating and managing an
// execution session: the private working copy of a flow that one run
// executes against.
package session

import (
	"context"

	"github.com/specialistvlad/botgrid/internal/graph"
)

// SessionFactory creates an execution Session. Implementations serialize
// sessions on the same live flow: NewSession blocks while another session of
// the same factory is open.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// Session represents a single execution run and manages its lifecycle.
type Session interface {
	// Graph returns the working copy the run reads and writes.
	Graph() graph.Graph

	// Index returns the dense position of a node in the snapshot the session
	// was opened with. Nodes added to the live flow afterwards have no index.
	Index(id string) (int, bool)

	// Len returns the number of nodes in the snapshot.
	Len() int

	// Flush applies the property writes made since the last flush to the
	// live flow and returns how many were applied.
	Flush(ctx context.Context) int

	// Close flushes outstanding writes and releases the run lock. It accepts
	// a context to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
