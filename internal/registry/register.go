package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/botgrid/internal/node"
)

// Register binds an action to a node kind. Registering a kind twice is a
// programming error.
func (r *Registry) Register(kind node.Kind, action Action) {
	if action == nil {
		panic(fmt.Sprintf("nil action registered for kind '%s'", kind))
	}
	if _, exists := r.actions[kind]; exists {
		panic(fmt.Sprintf("action for kind '%s' already registered", kind))
	}
	slog.Debug("Registering node action.", "kind", kind)
	r.actions[kind] = action
}
