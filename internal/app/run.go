package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/executor"
	"github.com/specialistvlad/botgrid/internal/topologystore"
)

// ErrNoStartNode is returned when neither the config nor the flow names a
// start node.
var ErrNoStartNode = errors.New("no start node")

// StartNode resolves the node a run begins at.
func (a *App) StartNode() (string, error) {
	start := a.config.StartNode
	if start == "" {
		start = a.flow.Start
	}
	if start == "" {
		return "", ErrNoStartNode
	}
	if !a.topology.HasNode(a.ctx, start) {
		return "", fmt.Errorf("start node '%s': %w", start, topologystore.ErrNodeNotFound)
	}
	return start, nil
}

// Trigger runs the flow from nodeID against the live graph. Concurrent
// triggers are serialized.
func (a *App) Trigger(ctx context.Context, nodeID string) *executor.Report {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.executor.Run(ctx, nodeID)
}

// Run executes one run from the start node. Node failures are reported in
// the returned report, not as an error.
func (a *App) Run(ctx context.Context) (*executor.Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.logger.Debug("App.Run method finished.")

	start, err := a.StartNode()
	if err != nil {
		return nil, err
	}

	a.healthCheckServer()
	defer func() {
		if err := a.closeHealthCheckServer(); err != nil {
			a.logger.Warn("Health check server did not close cleanly.", "error", err)
		}
	}()

	a.logger.Info("🚀 Starting flow.", "flow", a.flow.Name, "start", start)
	report := a.Trigger(ctx, start)
	a.printReport(report)
	a.logger.Info("🏁 Flow finished.", "visited", len(report.Visited), "failed", len(report.Failed()), "duration", report.Duration)
	return report, nil
}

func (a *App) printReport(report *executor.Report) {
	for _, id := range report.Visited {
		o := report.Outcomes[id]
		if o.Err != nil {
			fmt.Fprintf(a.outW, "  %-10s %-12s %s (%v)\n", o.Status, o.Kind, id, o.Err)
			continue
		}
		fmt.Fprintf(a.outW, "  %-10s %-12s %s\n", o.Status, o.Kind, id)
	}
}
