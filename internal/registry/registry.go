package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
)

// Action is the behavior of one node kind.
//
// Execute reads the node's inputs through g, performs its side effects, and
// writes results back through g. Returning an error marks the node failed;
// it never stops the run.
type Action interface {
	Execute(ctx context.Context, g graph.Graph, n *node.Node) error
}

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(ctx context.Context, g graph.Graph, n *node.Node) error

func (f ActionFunc) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	return f(ctx, g, n)
}

// Module is the interface that all modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the action registered for each node kind.
type Registry struct {
	actions map[node.Kind]Action
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{actions: make(map[node.Kind]Action)}
}

// Lookup returns the action for a kind.
func (r *Registry) Lookup(kind node.Kind) (Action, bool) {
	a, ok := r.actions[kind]
	return a, ok
}

// Kinds returns the registered kinds in the canonical kind order.
func (r *Registry) Kinds() []node.Kind {
	var out []node.Kind
	for _, k := range node.Kinds {
		if _, ok := r.actions[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	return len(r.actions)
}

// String is used by logging.
func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d actions)", len(r.actions))
}
