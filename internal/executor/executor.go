// Package executor defines the interface for the flow execution engine and
// the report it produces.
package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/botgrid/internal/node"
)

// Executor runs a flow starting at one triggered node.
//
// Run never fails as a whole: node failures are recorded in the report and
// on the nodes themselves.
type Executor interface {
	Run(ctx context.Context, startID string) *Report
}

// Outcome is the result of triggering a single node.
type Outcome struct {
	NodeID   string
	Kind     node.Kind
	Status   node.Status
	Err      error
	Duration time.Duration
}

// Report describes one run.
type Report struct {
	StartID string
	// Visited lists triggered nodes in the order they ran.
	Visited  []string
	Outcomes map[string]*Outcome
	Duration time.Duration
}

// NewReport creates an empty report for a run starting at startID.
func NewReport(startID string) *Report {
	return &Report{StartID: startID, Outcomes: make(map[string]*Outcome)}
}

// Record appends an outcome in visit order.
func (r *Report) Record(o *Outcome) {
	r.Visited = append(r.Visited, o.NodeID)
	r.Outcomes[o.NodeID] = o
}

// Failed returns the IDs of failed nodes in visit order.
func (r *Report) Failed() []string {
	var out []string
	for _, id := range r.Visited {
		if r.Outcomes[id].Status == node.StatusFailed {
			out = append(out, id)
		}
	}
	return out
}

// Succeeded reports whether every triggered node succeeded.
func (r *Report) Succeeded() bool {
	return len(r.Failed()) == 0
}
