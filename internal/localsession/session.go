// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"
	"sync"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/inmemorytopology"
	"github.com/specialistvlad/botgrid/internal/nodestore"
	"github.com/specialistvlad/botgrid/internal/session"
	"github.com/specialistvlad/botgrid/internal/topologystore"
)

// SessionFactory implements session.SessionFactory for one live flow.
type SessionFactory struct {
	live   topologystore.Store
	states nodestore.Store
	runMu  sync.Mutex
}

var _ session.SessionFactory = (*SessionFactory)(nil)

// NewFactory creates a factory that snapshots live and shares states with
// every session it opens.
func NewFactory(live topologystore.Store, states nodestore.Store) *SessionFactory {
	return &SessionFactory{live: live, states: states}
}

// NewSession waits for the previous session to close, then opens a session
// on a fresh snapshot of the live flow.
func (f *SessionFactory) NewSession(ctx context.Context) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	f.runMu.Lock()

	snap := f.live.Snapshot(ctx)
	index := make(map[string]int, len(snap.Nodes))
	for i, n := range snap.Nodes {
		index[n.ID] = i
	}
	working := graph.New(inmemorytopology.FromSnapshot(snap), f.states)
	logger.Debug("Session opened.", "nodes", len(snap.Nodes), "connectors", len(snap.Connectors))

	return &Session{
		factory: f,
		graph:   working,
		index:   index,
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	factory   *SessionFactory
	graph     *graph.Manager
	index     map[string]int
	closeOnce sync.Once
}

func (s *Session) Graph() graph.Graph {
	return s.graph
}

func (s *Session) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

func (s *Session) Len() int {
	return len(s.index)
}

func (s *Session) Flush(ctx context.Context) int {
	changes := s.graph.Drain()
	if len(changes) == 0 {
		return 0
	}
	applied := s.factory.live.Apply(ctx, changes)
	if skipped := len(changes) - applied; skipped > 0 {
		ctxlog.FromContext(ctx).Debug("Skipped writes to nodes removed from the live flow.", "skipped", skipped)
	}
	return applied
}

// Close flushes outstanding writes and releases the factory's run lock.
// Calling it more than once is safe.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.Flush(ctx)
		s.factory.runMu.Unlock()
		ctxlog.FromContext(ctx).Debug("Session closed.")
	})
	return nil
}
