// Package topologystore defines the interface for storing and retrieving the
// structure of a canvas flow: its nodes, their property bags, and the
// connectors drawn between them.
//
// # Why Topology Store Exists
//
// The topology store separates the **canvas structure** (nodes, connectors,
// properties) from the **execution state** (busy flags, statuses, errors)
// managed by nodestore. The canvas is edited while flows run, so the
// structure must be readable and writable from several goroutines at once,
// while a run works against a detached snapshot of it.
//
// # Lifecycle and Usage
//
// A live store is:
//  1. **Populated** by a loader (HCL files or a canvas document)
//  2. **Edited** by the canvas host at any time (nodes added, props changed)
//  3. **Snapshotted** at the start of each run into a working copy
//  4. **Patched** by the run via Apply, one settled node at a time
//
// Ordering matters: AllNodes and Connectors return entries in insertion
// order, and the engine's traversal order is derived from connector order.
package topologystore

import (
	"context"
	"errors"

	"github.com/specialistvlad/botgrid/internal/node"
)

var (
	// ErrNodeNotFound is returned when an operation names a node that is not
	// in the store.
	ErrNodeNotFound = errors.New("node not found")
	// ErrConnectorNotFound is returned when an operation names a connector
	// that is not in the store.
	ErrConnectorNotFound = errors.New("connector not found")
)

// Change is a single property write recorded during a run.
type Change struct {
	NodeID string
	Key    string
	Value  any
}

// Snapshot is a detached, ordered copy of a store's contents.
type Snapshot struct {
	Nodes      []*node.Node
	Connectors []*node.Connector
}

// Store is the interface for managing the structure of a canvas flow.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Returned nodes and
// connectors are copies; callers mutate the store only through its methods.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference implementation using
// ordered slices and sync.RWMutex.
type Store interface {
	// AddNode registers a node. Adding a node whose ID already exists
	// replaces its definition in place, keeping its position in the order.
	//
	// Thread-safety: Must be safe to call concurrently with other methods.
	AddNode(ctx context.Context, n *node.Node) error

	// RemoveNode deletes a node. Connectors bound to it are kept; they stop
	// resolving to edges because one endpoint is now absent.
	RemoveNode(ctx context.Context, id string) error

	// AddConnector registers a connector, replacing one with the same ID in place.
	AddConnector(ctx context.Context, c *node.Connector) error

	// RemoveConnector deletes a connector.
	RemoveConnector(ctx context.Context, id string) error

	// GetNode returns a copy of a node, or false if it does not exist.
	//
	// Thread-safety: Must be safe to call concurrently with writes.
	GetNode(ctx context.Context, id string) (*node.Node, bool)

	// HasNode reports whether a node exists without copying it.
	HasNode(ctx context.Context, id string) bool

	// AllNodes returns copies of all nodes in insertion order.
	AllNodes(ctx context.Context) []*node.Node

	// Connectors returns copies of all connectors in insertion order.
	Connectors(ctx context.Context) []*node.Connector

	// SetProp writes one property of a node.
	SetProp(ctx context.Context, id, key string, value any) error

	// Snapshot returns a detached copy of the whole store.
	Snapshot(ctx context.Context) *Snapshot

	// Apply replays property changes in order. Changes naming nodes that no
	// longer exist are skipped. It returns how many changes were applied.
	Apply(ctx context.Context, changes []Change) int
}
