package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/internal/graph"
	"github.com/specialistvlad/botgrid/internal/node"
)

// Speech speaks the joined texts of its upstream producers.
type Speech struct {
	Synthesizer dispatch.Synthesizer
	Player      dispatch.Player
}

// SpeechText joins the upstream texts, one per line.
func SpeechText(texts []string) string {
	return strings.Join(texts, "\n")
}

func (s *Speech) Execute(ctx context.Context, g graph.Graph, n *node.Node) error {
	logger := ctxlog.FromContext(ctx)
	text := SpeechText(upstreamTexts(ctx, g, n.ID))
	if text == "" {
		logger.Debug("No upstream text to speak.")
		return nil
	}
	if s.Synthesizer == nil {
		return errors.New("speech dispatcher is not configured")
	}

	logger.Info("Speaking.", "chars", len(text))
	audio, err := s.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("speech synthesis failed: %w", err)
	}
	recordProp(ctx, logger, g, n.ID, "text", text)

	if len(audio) == 0 || s.Player == nil {
		return nil
	}
	if err := s.Player.Play(ctx, audio); err != nil {
		return fmt.Errorf("audio playback failed: %w", err)
	}
	return nil
}
