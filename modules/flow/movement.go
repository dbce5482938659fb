package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
)

// Movement sends one movement request per trigger.
//
// The command comes from the last upstream text that parses as a command.
// Without one, the node's own direction and value properties are used.
type Movement struct {
	Mover dispatch.Mover
}

func (m *Movement) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	logger := ctxlog.FromContext(ctx)
	if m.Mover == nil {
		return errors.New("movement dispatcher is not configured")
	}

	cmd := Command{Direction: n.Props.String("direction")}
	cmd.Value, _ = n.Props.Float("value")
	if cmd.Direction == "" {
		cmd.Direction = dispatch.Forward
	}
	source := "props"
	for _, text := range upstreamTexts(ctx, g, n.ID) {
		if parsed, ok := ParseCommand(text); ok {
			cmd = parsed
			source = "upstream"
		}
	}

	logger.Info("Dispatching movement.", "direction", cmd.Direction, "value", cmd.Value, "source", source)
	res, err := m.Mover.Move(ctx, cmd.Direction, cmd.Value)
	if err != nil {
		recordProp(ctx, logger, g, n.ID, "result", "error")
		return fmt.Errorf("movement %s %v failed: %w", cmd.Direction, cmd.Value, err)
	}

	status := "success"
	if res != nil && res.Status != "" {
		status = res.Status
	}
	recordProp(ctx, logger, g, n.ID, "result", status)
	return nil
}
