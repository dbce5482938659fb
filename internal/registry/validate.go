package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/node"
)

// ErrMissingAction is returned by Validate when a kind has no action.
var ErrMissingAction = errors.New("node kind has no registered action")

// Validate checks that every node kind has an action and that no action is
// registered for a kind outside the supported set.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var missing []string
	for _, k := range node.Kinds {
		if _, ok := r.actions[k]; !ok {
			missing = append(missing, string(k))
		}
	}

	known := make(map[node.Kind]struct{}, len(node.Kinds))
	for _, k := range node.Kinds {
		known[k] = struct{}{}
	}
	var unknown []string
	for k := range r.actions {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, string(k))
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingAction, strings.Join(missing, ", ")))
	}
	if len(unknown) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", node.ErrUnknownKind, strings.Join(unknown, ", ")))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	logger.Debug("Registry validated.", "actions", len(r.actions))
	return nil
}
