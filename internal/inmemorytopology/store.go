package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps for lookup,
// slices for ordering, and a mutex for thread-safe concurrent access.
type Store struct {
	mu         sync.RWMutex
	nodes      map[string]*node.Node
	nodeOrder  []string
	connectors map[string]*node.Connector
	connOrder  []string
}

// New creates a new, empty in-memory topology store.
func New() *Store {
	return &Store{
		nodes:      make(map[string]*node.Node),
		connectors: make(map[string]*node.Connector),
	}
}

// FromSnapshot builds a store holding copies of the snapshot's contents, in
// the snapshot's order.
func FromSnapshot(snap *topologystore.Snapshot) *Store {
	s := New()
	if snap == nil {
		return s
	}
	for _, n := range snap.Nodes {
		s.putNode(n.Clone())
	}
	for _, c := range snap.Connectors {
		s.putConnector(c.Clone())
	}
	return s
}

// AddNode adds or replaces a node.
func (s *Store) AddNode(ctx context.Context, n *node.Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("cannot add node without an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putNode(n.Clone())
	return nil
}

func (s *Store) putNode(n *node.Node) {
	if _, exists := s.nodes[n.ID]; !exists {
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	if n.Props == nil {
		n.Props = node.Props{}
	}
	s.nodes[n.ID] = n
}

// RemoveNode deletes a node, leaving its connectors in place.
func (s *Store) RemoveNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		return fmt.Errorf("%w: '%s'", topologystore.ErrNodeNotFound, id)
	}
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(v string) bool { return v == id })
	return nil
}

// AddConnector adds or replaces a connector.
func (s *Store) AddConnector(ctx context.Context, c *node.Connector) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("cannot add connector without an id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putConnector(c.Clone())
	return nil
}

func (s *Store) putConnector(c *node.Connector) {
	if _, exists := s.connectors[c.ID]; !exists {
		s.connOrder = append(s.connOrder, c.ID)
	}
	s.connectors[c.ID] = c
}

// RemoveConnector deletes a connector.
func (s *Store) RemoveConnector(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connectors[id]; !exists {
		return fmt.Errorf("%w: '%s'", topologystore.ErrConnectorNotFound, id)
	}
	delete(s.connectors, id)
	s.connOrder = slices.DeleteFunc(s.connOrder, func(v string) bool { return v == id })
	return nil
}

// GetNode retrieves a copy of a single node.
func (s *Store) GetNode(ctx context.Context, id string) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// HasNode reports whether the node exists.
func (s *Store) HasNode(ctx context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// AllNodes returns copies of all nodes in insertion order.
func (s *Store) AllNodes(ctx context.Context) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyNodes()
}

// Connectors returns copies of all connectors in insertion order.
func (s *Store) Connectors(ctx context.Context) []*node.Connector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyConnectors()
}

// copyNodes and copyConnectors expect s.mu to be held.
func (s *Store) copyNodes() []*node.Node {
	nodes := make([]*node.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	return nodes
}

func (s *Store) copyConnectors() []*node.Connector {
	out := make([]*node.Connector, 0, len(s.connOrder))
	for _, id := range s.connOrder {
		out = append(out, s.connectors[id].Clone())
	}
	return out
}

// SetProp writes one property of a node.
func (s *Store) SetProp(ctx context.Context, id, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: '%s'", topologystore.ErrNodeNotFound, id)
	}
	n.Props[key] = value
	return nil
}

// Snapshot returns a detached copy of the store, taken under one read lock.
func (s *Store) Snapshot(ctx context.Context) *topologystore.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &topologystore.Snapshot{
		Nodes:      s.copyNodes(),
		Connectors: s.copyConnectors(),
	}
}

// Apply replays property changes, skipping nodes that no longer exist.
func (s *Store) Apply(ctx context.Context, changes []topologystore.Change) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, ch := range changes {
		n, ok := s.nodes[ch.NodeID]
		if !ok {
			continue
		}
		n.Props[ch.Key] = ch.Value
		applied++
	}
	return applied
}
