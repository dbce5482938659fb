// Package graph provides a unified facade for a canvas flow, combining its
// structure (nodes, connectors, properties) and the execution state of its
// nodes (busy flags, statuses, errors).
//
// # Why Graph Package Exists
//
// Node actions and the engine need one API that answers "who feeds this
// node", "what text does that node hold" and "is this node busy", without
// knowing that the answers come from two stores. The Graph interface is that
// API; Manager is the implementation that composes a topologystore.Store and
// a nodestore.Store.
//
// # Architecture: The Facade Pattern
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (resolver, text signals, status)   │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │ Node State │
//	  │   Store    │  │   Store    │
//	  │ (Structure)│  │  (Status)  │
//	  └────────────┘  └────────────┘
//
// # Resolver
//
// Edges are derived from connectors on every query. A connector bound at
// both terminals contributes one edge; dangling connectors contribute none.
// ConnectionsFrom and ConnectionsTo return neighbors in connector storage
// order with duplicates preserved, and omit neighbors that name absent
// nodes. A connector from a node to itself is a self-edge.
//
// # Journal
//
// Every property write made through the facade is recorded as a
// topologystore.Change. A run drains the journal after each node and applies
// it to the live canvas, so the live graph is updated with the run's writes
// while the run itself keeps reading its private snapshot.
//
// # Thread-Safety
//
// All Graph methods are thread-safe. They delegate to the underlying
// thread-safe stores, and the journal has its own lock.
package graph
