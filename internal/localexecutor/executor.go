// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface.
//
// A run walks the flow depth-first from the triggered node. Each reachable
// node runs at most once per run: an index-addressed visited marker prunes
// cycles, including self-loops. Successors are resolved after a node's
// action settles, so the order is the same as a recursive sequential
// traversal that visits children in connector order.
package localexecutor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/executor"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/registry"
	"github.com/specialistvlad/botgrid/internal/session"
)

// ErrNoAction is recorded for a node whose kind has no registered action.
var ErrNoAction = registry.ErrMissingAction

// Executor implements the executor.Executor interface for local execution.
type Executor struct {
	sessions session.SessionFactory
	actions  *registry.Registry
}

var _ executor.Executor = (*Executor)(nil)

// New creates a new local executor.
func New(sessions session.SessionFactory, actions *registry.Registry) *Executor {
	return &Executor{sessions: sessions, actions: actions}
}

// Run triggers startID and everything reachable from it.
func (e *Executor) Run(ctx context.Context, startID string) *executor.Report {
	ctx, logger := ctxlog.With(ctx, "run_start", startID)
	report := executor.NewReport(startID)
	began := time.Now()
	defer func() { report.Duration = time.Since(began) }()

	sess, err := e.sessions.NewSession(ctx)
	if err != nil {
		logger.Error("Failed to open session.", "error", err)
		return report
	}
	defer func() {
		if err := sess.Close(ctx); err != nil {
			logger.Warn("Failed to close session.", "error", err)
		}
	}()

	g := sess.Graph()
	visited := make([]bool, sess.Len())
	stack := []string{startID}

	logger.Info("▶️ Run started.")
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx, ok := sess.Index(id)
		if !ok || visited[idx] {
			continue
		}
		visited[idx] = true

		n, ok := g.Node(ctx, id)
		if !ok {
			continue
		}

		report.Record(e.trigger(ctx, g, n))
		sess.Flush(ctx)

		next := g.ConnectionsFrom(ctx, id)
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}

	failed := report.Failed()
	if len(failed) > 0 {
		logger.Warn("⚠️ Run finished with failed nodes.", "visited", len(report.Visited), "failed", failed)
	} else {
		logger.Info("✅ Run finished.", "visited", len(report.Visited))
	}
	return report
}

// trigger runs one node's action between acquiring and releasing its busy
// flag. It never returns an error; the outcome carries it.
func (e *Executor) trigger(ctx context.Context, g graph.Graph, n *node.Node) *executor.Outcome {
	ctx, logger := ctxlog.With(ctx, "node_id", n.ID, "kind", n.Kind)
	outcome := &executor.Outcome{NodeID: n.ID, Kind: n.Kind}
	began := time.Now()
	defer func() { outcome.Duration = time.Since(began) }()

	if err := g.Acquire(ctx, n.ID); err != nil {
		logger.Error("Node refused to start.", "error", err)
		outcome.Status = node.StatusFailed
		outcome.Err = err
		return outcome
	}

	err := e.execute(ctx, g, n)
	if err != nil {
		logger.Error("Node execution failed.", "error", err)
		outcome.Status = node.StatusFailed
		outcome.Err = err
		if markErr := g.MarkFailed(ctx, n.ID, err); markErr != nil {
			logger.Warn("Failed to record node failure.", "error", markErr)
		}
		return outcome
	}

	logger.Debug("Node execution succeeded.")
	outcome.Status = node.StatusSucceeded
	if markErr := g.MarkSucceeded(ctx, n.ID); markErr != nil {
		logger.Warn("Failed to record node success.", "error", markErr)
	}
	return outcome
}

// execute looks up and runs the action, converting panics into errors.
func (e *Executor) execute(ctx context.Context, g graph.Graph, n *node.Node) (err error) {
	action, ok := e.actions.Lookup(n.Kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoAction, n.Kind)
	}

	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Debug("Recovered panic in node action.", "stack", string(debug.Stack()))
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return action.Execute(ctx, g, n)
}
