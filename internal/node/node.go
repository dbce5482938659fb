package node

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a node kind string does not name one of the
// supported kinds.
var ErrUnknownKind = errors.New("unknown node kind")

// Kind identifies what a node does when it is triggered.
type Kind string

const (
	// KindStart is the entry point of a flow. Triggering it does nothing by
	// itself; its successors carry the work.
	KindStart Kind = "start"
	// KindMovement drives the robot.
	KindMovement Kind = "movement"
	// KindSpeech speaks the text of its upstream producers.
	KindSpeech Kind = "speech"
	// KindAudioInput holds a transcribed voice command.
	KindAudioInput Kind = "audio_input"
	// KindGeneration asks a language model for a response.
	KindGeneration Kind = "generation"
	// KindDecision routes a left/right choice to its successors.
	KindDecision Kind = "decision"
	// KindStatus is a presentational status badge.
	KindStatus Kind = "status"
	// KindText holds free text typed on the canvas.
	KindText Kind = "text"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{
	KindStart,
	KindMovement,
	KindSpeech,
	KindAudioInput,
	KindGeneration,
	KindDecision,
	KindStatus,
	KindText,
}

// kindAliases maps the names the canvas has used over time to their kind.
var kindAliases = map[string]Kind{
	"think":      KindGeneration,
	"llm":        KindGeneration,
	"decide":     KindDecision,
	"text_input": KindText,
	"move":       KindMovement,
	"talk":       KindSpeech,
	"listen":     KindAudioInput,
}

// textProps maps text-producing kinds to the property holding their text.
var textProps = map[Kind]string{
	KindText:       "text",
	KindAudioInput: "command",
}

// ParseKind normalizes a kind name, resolving legacy aliases.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// TextProperty reports the property a text-producing kind stores its text
// under. The second result is false for kinds that carry no text signal.
func (k Kind) TextProperty() (string, bool) {
	p, ok := textProps[k]
	return p, ok
}

// IsTextProducer reports whether nodes of this kind yield and accept text.
func (k Kind) IsTextProducer() bool {
	_, ok := textProps[k]
	return ok
}

// Node is a single vertex on the canvas.
type Node struct {
	// ID is the opaque, unique identifier of the shape on the canvas.
	ID string
	// Kind selects the action that runs when the node is triggered.
	Kind Kind
	// Title is the human readable label.
	Title string
	// Props is the mutable property bag. Actions read their inputs from it
	// and write results back into it.
	Props Props
}

// New creates a node of the given kind with the canvas default properties.
func New(id string, kind Kind) *Node {
	return &Node{
		ID:    id,
		Kind:  kind,
		Props: DefaultProps(kind),
	}
}

// DefaultProps returns the properties a freshly created node of the given
// kind starts with.
func DefaultProps(kind Kind) Props {
	switch kind {
	case KindMovement:
		return Props{"direction": "forward", "value": float64(0)}
	case KindGeneration:
		return Props{"instruction": "", "response": ""}
	case KindText, KindSpeech:
		return Props{"text": ""}
	case KindAudioInput:
		return Props{"command": ""}
	case KindStatus:
		return Props{"status": "idle"}
	default:
		return Props{}
	}
}

// Text returns the current text of a text-producing node.
func (n *Node) Text() (string, bool) {
	prop, ok := n.Kind.TextProperty()
	if !ok {
		return "", false
	}
	return n.Props.String(prop), true
}

// Clone returns a deep copy of the node. Mutating the copy never affects the
// original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	return &Node{
		ID:    n.ID,
		Kind:  n.Kind,
		Title: n.Title,
		Props: n.Props.Clone(),
	}
}
