package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/nodestore"
	"github.com/specialistvlad/botgrid/internal/topologystore"
)

var (
	// ErrNodeBusy is returned when a node is triggered while it is executing.
	ErrNodeBusy = errors.New("node is busy")
	// ErrNotTextProducer is returned when text is written to a node kind that
	// carries no text signal.
	ErrNotTextProducer = errors.New("node does not produce text")
)

// Manager provides a high-level, thread-safe interface to a flow by composing
// a topology store and a node state store.
type Manager struct {
	topology  topologystore.Store
	nodeState nodestore.Store

	mu      sync.Mutex
	journal []topologystore.Change
}

var _ Graph = (*Manager)(nil)

// New creates a new graph manager.
func New(ts topologystore.Store, ns nodestore.Store) *Manager {
	return &Manager{topology: ts, nodeState: ns}
}

// Topology exposes the underlying structure store.
func (m *Manager) Topology() topologystore.Store {
	return m.topology
}

func (m *Manager) Node(ctx context.Context, id string) (*node.Node, bool) {
	return m.topology.GetNode(ctx, id)
}

func (m *Manager) AllNodes(ctx context.Context) []*node.Node {
	return m.topology.AllNodes(ctx)
}

func (m *Manager) Text(ctx context.Context, id string) (string, bool) {
	n, ok := m.topology.GetNode(ctx, id)
	if !ok {
		return "", false
	}
	return n.Text()
}

func (m *Manager) SetText(ctx context.Context, id, text string) error {
	n, ok := m.topology.GetNode(ctx, id)
	if !ok {
		return fmt.Errorf("%w: '%s'", topologystore.ErrNodeNotFound, id)
	}
	prop, ok := n.Kind.TextProperty()
	if !ok {
		return fmt.Errorf("%w: '%s' is a %s node", ErrNotTextProducer, id, n.Kind)
	}
	return m.SetProp(ctx, id, prop, text)
}

func (m *Manager) SetProp(ctx context.Context, id, key string, value any) error {
	if err := m.topology.SetProp(ctx, id, key, value); err != nil {
		return err
	}
	m.mu.Lock()
	m.journal = append(m.journal, topologystore.Change{NodeID: id, Key: key, Value: value})
	m.mu.Unlock()
	return nil
}

// Drain returns the property changes recorded since the last call and clears
// the journal.
func (m *Manager) Drain() []topologystore.Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.journal
	m.journal = nil
	return out
}

func (m *Manager) Acquire(ctx context.Context, id string) error {
	ok, err := m.nodeState.Acquire(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to acquire node '%s': %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrNodeBusy, id)
	}
	// A fresh attempt starts without the error of the previous one.
	if err := m.nodeState.SetError(ctx, id, nil); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to clear previous node error.", "node_id", id, "error", err)
	}
	return nil
}

func (m *Manager) MarkSucceeded(ctx context.Context, id string) error {
	return m.nodeState.SetStatus(ctx, id, node.StatusSucceeded)
}

func (m *Manager) MarkFailed(ctx context.Context, id string, nodeErr error) error {
	if err := m.nodeState.SetError(ctx, id, nodeErr); err != nil {
		return err
	}
	return m.nodeState.SetStatus(ctx, id, node.StatusFailed)
}

func (m *Manager) NodeStatus(ctx context.Context, id string) node.Status {
	status, err := m.nodeState.GetStatus(ctx, id)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to read node status.", "node_id", id, "error", err)
		return node.StatusIdle
	}
	return status
}

func (m *Manager) NodeError(ctx context.Context, id string) error {
	nodeErr, err := m.nodeState.GetError(ctx, id)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to read node error.", "node_id", id, "error", err)
		return nil
	}
	return nodeErr
}

func (m *Manager) Busy(ctx context.Context, id string) bool {
	return m.NodeStatus(ctx, id).Busy()
}
