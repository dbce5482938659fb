package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Flows      []*FlowBlock      `hcl:"flow,block"`
	Nodes      []*NodeBlock      `hcl:"node,block"`
	Connectors []*ConnectorBlock `hcl:"connector,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// FlowBlock is `flow "<name>" { start = "<node id>" }`.
type FlowBlock struct {
	Name  string `hcl:"name,label"`
	Start string `hcl:"start,optional"`
}

// NodeBlock is `node "<kind>" "<id>" { ... }`. Every attribute other than
// title becomes a node property.
type NodeBlock struct {
	Kind  string   `hcl:"kind,label"`
	ID    string   `hcl:"id,label"`
	Title string   `hcl:"title,optional"`
	Body  hcl.Body `hcl:",remain"`
}

// ConnectorBlock is `connector "<id>" { start = "<node>" end = "<node>" }`.
type ConnectorBlock struct {
	ID    string `hcl:"id,label"`
	Start string `hcl:"start,optional"`
	End   string `hcl:"end,optional"`
}
