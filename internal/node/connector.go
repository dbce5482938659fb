package node

// Terminal names one end of a connector.
type Terminal string

const (
	TerminalStart Terminal = "start"
	TerminalEnd   Terminal = "end"
)

// Binding attaches one terminal of a connector to a node.
type Binding struct {
	Terminal Terminal
	NodeID   string
}

// Connector is an arrow drawn between two nodes. A connector bound at both
// terminals is a directed edge from its start node to its end node. A
// connector missing either binding is dangling and carries no edge.
type Connector struct {
	ID       string
	Bindings []Binding
}

// NewConnector creates a connector bound from one node to another. An empty
// id on either side leaves that terminal unbound.
func NewConnector(id, from, to string) *Connector {
	c := &Connector{ID: id}
	if from != "" {
		c.Bindings = append(c.Bindings, Binding{Terminal: TerminalStart, NodeID: from})
	}
	if to != "" {
		c.Bindings = append(c.Bindings, Binding{Terminal: TerminalEnd, NodeID: to})
	}
	return c
}

// Endpoint returns the node bound at the given terminal. The first binding
// for a terminal wins.
func (c *Connector) Endpoint(t Terminal) (string, bool) {
	for _, b := range c.Bindings {
		if b.Terminal == t && b.NodeID != "" {
			return b.NodeID, true
		}
	}
	return "", false
}

// Edge returns the directed edge the connector represents.
func (c *Connector) Edge() (from, to string, ok bool) {
	from, okFrom := c.Endpoint(TerminalStart)
	to, okTo := c.Endpoint(TerminalEnd)
	if !okFrom || !okTo {
		return "", "", false
	}
	return from, to, true
}

// Clone returns a copy of the connector.
func (c *Connector) Clone() *Connector {
	if c == nil {
		return nil
	}
	out := &Connector{ID: c.ID}
	if c.Bindings != nil {
		out.Bindings = append([]Binding(nil), c.Bindings...)
	}
	return out
}
