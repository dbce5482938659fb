// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// Unlike inmemorytopology which uses RWMutex, this store uses sync.Map:
// each node's state is independent, and Acquire is a compare-and-swap on a
// single key. sync.Map suits this pattern where the key space is stable
// (one key per node) but values change on every run.
//
// For status display by another process, see internal/redisstore.
package inmemorystore
