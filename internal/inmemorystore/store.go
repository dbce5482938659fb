package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/botgrid/internal/node"
)

// Store is an in-memory implementation of nodestore.Store.
//
// The store maintains two independent sync.Maps:
//   - states: Maps node IDs to node.Status
//   - errors: Maps node IDs to the error of their last failed action
type Store struct {
	states sync.Map // Key: node ID, Value: node.Status
	errors sync.Map // Key: node ID, Value: error
}

// New creates a new, empty in-memory node state store.
func New() *Store {
	return &Store{}
}

// Acquire moves a node to Busy unless it already is.
func (s *Store) Acquire(ctx context.Context, id string) (bool, error) {
	for {
		current, loaded := s.states.LoadOrStore(id, node.StatusBusy)
		if !loaded {
			return true, nil
		}
		if current.(node.Status).Busy() {
			return false, nil
		}
		if s.states.CompareAndSwap(id, current, node.StatusBusy) {
			return true, nil
		}
	}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id string, status node.Status) error {
	s.states.Store(id, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusIdle.
func (s *Store) GetStatus(ctx context.Context, id string) (node.Status, error) {
	status, ok := s.states.Load(id)
	if !ok {
		return node.StatusIdle, nil
	}
	return status.(node.Status), nil
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	if nodeErr == nil {
		s.errors.Delete(id)
		return nil
	}
	s.errors.Store(id, nodeErr)
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id string) (error, error) {
	err, ok := s.errors.Load(id)
	if !ok {
		return nil, nil // If not found, there is no error.
	}
	return err.(error), nil
}

// Reset forgets the status and error of a node.
func (s *Store) Reset(ctx context.Context, id string) error {
	s.states.Delete(id)
	s.errors.Delete(id)
	return nil
}
