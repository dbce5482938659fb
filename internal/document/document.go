// Package document loads flows from canvas documents, the JSON or YAML the
// canvas editor saves: a list of shapes and a list of connections whose
// bindings name the shape at each terminal.
//
//	{
//	  "name": "patrol",
//	  "start": "go",
//	  "shapes": [
//	    {"id": "go", "type": "start"},
//	    {"id": "cmd", "type": "text_input", "props": {"text": "left"}}
//	  ],
//	  "connections": [
//	    {"id": "c1", "bindings": [
//	      {"terminal": "start", "toId": "go"},
//	      {"terminal": "end", "toId": "cmd"}
//	    ]},
//	    {"id": "c2", "from": "cmd", "to": "wheels"}
//	  ]
//	}
//
// JSON files are decoded with sonic, YAML files with yaml.v3.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/specialistvlad/botgrid/internal/config"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/fsutil"
	"github.com/specialistvlad/botgrid/internal/node"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".json", ".yaml", ".yml"}

// Document is the on-disk shape of a canvas.
type Document struct {
	Name        string        `json:"name" yaml:"name"`
	Start       string        `json:"start,omitempty" yaml:"start,omitempty"`
	Shapes      []*Shape      `json:"shapes" yaml:"shapes"`
	Connections []*Connection `json:"connections" yaml:"connections"`
}

type Shape struct {
	ID    string         `json:"id" yaml:"id"`
	Type  string         `json:"type" yaml:"type"`
	Title string         `json:"title,omitempty" yaml:"title,omitempty"`
	Props map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// Connection is either a list of bindings or the From/To shorthand.
type Connection struct {
	ID       string     `json:"id" yaml:"id"`
	Bindings []*Binding `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	From     string     `json:"from,omitempty" yaml:"from,omitempty"`
	To       string     `json:"to,omitempty" yaml:"to,omitempty"`
}

type Binding struct {
	Terminal string `json:"terminal" yaml:"terminal"`
	ToID     string `json:"toId" yaml:"toId"`
}

// endpoints resolves the connection's start and end node ids. Bindings win
// over the shorthand; later bindings for the same terminal replace earlier
// ones.
func (c *Connection) endpoints() (start, end string, err error) {
	start, end = c.From, c.To
	for _, b := range c.Bindings {
		switch node.Terminal(strings.ToLower(b.Terminal)) {
		case node.TerminalStart:
			start = b.ToID
		case node.TerminalEnd:
			end = b.ToID
		default:
			return "", "", fmt.Errorf("connection '%s': unknown terminal %q", c.ID, b.Terminal)
		}
	}
	return start, end, nil
}

// Flow converts the document into the format-agnostic flow.
func (d *Document) Flow() (*config.Flow, error) {
	flow := &config.Flow{Name: d.Name, Start: d.Start}
	for _, s := range d.Shapes {
		flow.Nodes = append(flow.Nodes, &config.NodeSpec{ID: s.ID, Kind: s.Type, Title: s.Title, Props: s.Props})
	}
	for _, c := range d.Connections {
		start, end, err := c.endpoints()
		if err != nil {
			return nil, err
		}
		flow.Connectors = append(flow.Connectors, &config.ConnectorSpec{ID: c.ID, Start: start, End: end})
	}
	return flow, nil
}

// Decode parses a document. format is "json" or "yaml".
func Decode(data []byte, format string) (*Document, error) {
	var doc Document
	switch format {
	case "json":
		if err := sonic.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON document: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	return &doc, nil
}

// Loader implements config.Loader for canvas documents.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Flow, error) {
	logger := ctxlog.FromContext(ctx)
	flow := &config.Flow{}
	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, Extensions...)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read document %s: %w", file, err)
			}
			doc, err := Decode(data, strings.TrimPrefix(filepath.Ext(file), "."))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			part, err := doc.Flow()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			logger.Debug("Loaded canvas document.", "file", file, "shapes", len(doc.Shapes), "connections", len(doc.Connections))
			flow.Merge(part)
		}
	}
	return flow, nil
}
