// Package dispatch defines the side-effect boundary of node actions: robot
// movement, speech synthesis, text generation and audio playback.
//
// Every call is attempted at most once. Implementations never retry; a failed
// call is reported to the calling action, which fails its node.
package dispatch

import (
	"context"
	"errors"
)

// Mover drives the robot.
type Mover interface {
	Move(ctx context.Context, direction string, value float64) (*MoveResult, error)
}

// MoveResult is the robot's acknowledgement of a movement request.
type MoveResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Synthesizer turns text into audio. It may return no audio when the speaker
// plays the text itself.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Generator completes a prompt with a language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Player plays synthesized audio.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Set bundles the dispatchers node actions use.
type Set struct {
	Mover       Mover
	Synthesizer Synthesizer
	Generator   Generator
	Player      Player
}

// Validate checks that every dispatcher is present.
func (s Set) Validate() error {
	var errs []error
	if s.Mover == nil {
		errs = append(errs, errors.New("movement dispatcher is not configured"))
	}
	if s.Synthesizer == nil {
		errs = append(errs, errors.New("speech dispatcher is not configured"))
	}
	if s.Generator == nil {
		errs = append(errs, errors.New("generation dispatcher is not configured"))
	}
	if s.Player == nil {
		errs = append(errs, errors.New("audio player is not configured"))
	}
	return errors.Join(errs...)
}
