package config

// Flow is the format-agnostic representation of one canvas.
type Flow struct {
	Name string
	// Start is the node a run begins at when none is given explicitly.
	Start      string
	Nodes      []*NodeSpec
	Connectors []*ConnectorSpec
}

// NodeSpec is the loader's view of a node before its kind is validated.
type NodeSpec struct {
	ID    string
	Kind  string
	Title string
	Props map[string]any
}

// ConnectorSpec names the nodes bound to a connector's start and end
// terminals. Either side may be empty, which leaves the connector dangling.
type ConnectorSpec struct {
	ID    string
	Start string
	End   string
}

// Merge appends other's nodes and connectors to f. Name and Start are taken
// from other when f has none.
func (f *Flow) Merge(other *Flow) {
	if other == nil {
		return
	}
	if f.Name == "" {
		f.Name = other.Name
	}
	if f.Start == "" {
		f.Start = other.Start
	}
	f.Nodes = append(f.Nodes, other.Nodes...)
	f.Connectors = append(f.Connectors, other.Connectors...)
}
