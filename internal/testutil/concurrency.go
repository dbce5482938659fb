package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
	"github.com/specialistvlad/botgrid/internal/registry"
)

// Recorder is a node action that records the order and timing of the nodes
// it runs. Errors and panics can be scripted per node ID.
type Recorder struct {
	mu             sync.Mutex
	Order          []string
	ExecutionTimes map[string]*ExecutionRecord

	Sleep    time.Duration
	Errors   map[string]error
	Panics   map[string]any
	OnCall   func(ctx context.Context, g graph.Graph, n *node.Node)
	Complete chan<- string
}

// NewRecorder creates a recorder that sleeps for the given duration per node.
func NewRecorder(sleep time.Duration) *Recorder {
	return &Recorder{
		ExecutionTimes: make(map[string]*ExecutionRecord),
		Sleep:          sleep,
		Errors:         make(map[string]error),
		Panics:         make(map[string]any),
	}
}

// Execute implements registry.Action.
func (r *Recorder) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	start := time.Now()
	if r.OnCall != nil {
		r.OnCall(ctx, g, n)
	}
	if r.Sleep > 0 {
		time.Sleep(r.Sleep)
	}

	r.mu.Lock()
	r.Order = append(r.Order, n.ID)
	r.ExecutionTimes[n.ID] = &ExecutionRecord{Start: start, End: time.Now()}
	p, shouldPanic := r.Panics[n.ID]
	err := r.Errors[n.ID]
	r.mu.Unlock()

	if r.Complete != nil {
		r.Complete <- n.ID
	}
	if shouldPanic {
		panic(p)
	}
	return err
}

// Visits returns a copy of the recorded order.
func (r *Recorder) Visits() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Order...)
}

// Register binds the recorder to every node kind.
func (r *Recorder) Register(reg *registry.Registry) {
	for _, k := range node.Kinds {
		reg.Register(k, r)
	}
}
