package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/topologystore"
)

var (
	ErrDuplicateNode      = errors.New("duplicate node id")
	ErrDuplicateConnector = errors.New("duplicate connector id")
	ErrMissingID          = errors.New("missing id")
)

// Validate checks ids and kinds without touching any store. All problems
// are reported together.
func (f *Flow) Validate() error {
	var errs []error
	nodes := make(map[string]struct{}, len(f.Nodes))
	for i, ns := range f.Nodes {
		if ns.ID == "" {
			errs = append(errs, fmt.Errorf("node #%d: %w", i+1, ErrMissingID))
			continue
		}
		if _, dup := nodes[ns.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: '%s'", ErrDuplicateNode, ns.ID))
		}
		nodes[ns.ID] = struct{}{}
		if _, err := node.ParseKind(ns.Kind); err != nil {
			errs = append(errs, fmt.Errorf("node '%s': %w", ns.ID, err))
		}
	}

	conns := make(map[string]struct{}, len(f.Connectors))
	for i, cs := range f.Connectors {
		if cs.ID == "" {
			errs = append(errs, fmt.Errorf("connector #%d: %w", i+1, ErrMissingID))
			continue
		}
		if _, dup := conns[cs.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: '%s'", ErrDuplicateConnector, cs.ID))
		}
		conns[cs.ID] = struct{}{}
	}

	if f.Start != "" {
		if _, ok := nodes[f.Start]; !ok {
			errs = append(errs, fmt.Errorf("start node '%s': %w", f.Start, topologystore.ErrNodeNotFound))
		}
	}
	return errors.Join(errs...)
}

// Populate validates the flow and adds its nodes and connectors to store.
// Node properties are layered over the kind's defaults. Connectors naming
// unknown nodes are kept; they are dangling until those nodes appear.
func (f *Flow) Populate(ctx context.Context, store topologystore.Store) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid flow '%s': %w", f.Name, err)
	}
	logger := ctxlog.FromContext(ctx).With("flow", f.Name)

	for _, ns := range f.Nodes {
		kind, _ := node.ParseKind(ns.Kind)
		n := node.New(ns.ID, kind)
		n.Title = ns.Title
		for k, v := range ns.Props {
			n.Props[k] = v
		}
		if err := store.AddNode(ctx, n); err != nil {
			return fmt.Errorf("failed to add node '%s': %w", ns.ID, err)
		}
	}
	for _, cs := range f.Connectors {
		if err := store.AddConnector(ctx, node.NewConnector(cs.ID, cs.Start, cs.End)); err != nil {
			return fmt.Errorf("failed to add connector '%s': %w", cs.ID, err)
		}
	}

	logger.Debug("Flow populated.", "nodes", len(f.Nodes), "connectors", len(f.Connectors))
	return nil
}
