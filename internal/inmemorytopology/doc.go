// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. It backs both the live canvas graph
// and the detached working copy a run executes against.
package inmemorytopology
