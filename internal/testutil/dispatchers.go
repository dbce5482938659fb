package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/botgrid/internal/dispatch"
)

// MoveCall is one recorded movement request.
type MoveCall struct {
	Direction string
	Value     float64
}

// FakeMover records movement requests.
type FakeMover struct {
	mu    sync.Mutex
	Calls []MoveCall
	Err   error
}

func (f *FakeMover) Move(ctx context.Context, direction string, value float64) (*dispatch.MoveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, MoveCall{Direction: direction, Value: value})
	if f.Err != nil {
		return nil, f.Err
	}
	return &dispatch.MoveResult{Status: "success", Message: "Moving " + direction}, nil
}

// FakeSynthesizer records texts and returns fixed audio.
type FakeSynthesizer struct {
	mu    sync.Mutex
	Texts []string
	Audio []byte
	Err   error
}

func (f *FakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Texts = append(f.Texts, text)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Audio, nil
}

// FakeGenerator records prompts and returns a fixed response.
type FakeGenerator struct {
	mu       sync.Mutex
	Prompts  []string
	Response string
	Err      error
}

func (f *FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Response, nil
}

// FakePlayer records played audio.
type FakePlayer struct {
	mu     sync.Mutex
	Played [][]byte
	Err    error
}

func (f *FakePlayer) Play(ctx context.Context, audio []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Played = append(f.Played, audio)
	return f.Err
}

// Dispatchers bundles a full set of fakes.
type Dispatchers struct {
	Mover       *FakeMover
	Synthesizer *FakeSynthesizer
	Generator   *FakeGenerator
	Player      *FakePlayer
}

// NewDispatchers creates fakes that succeed by default.
func NewDispatchers() *Dispatchers {
	return &Dispatchers{
		Mover:       &FakeMover{},
		Synthesizer: &FakeSynthesizer{Audio: []byte("audio")},
		Generator:   &FakeGenerator{Response: "generated"},
		Player:      &FakePlayer{},
	}
}

// Set returns the fakes as a dispatch.Set.
func (d *Dispatchers) Set() dispatch.Set {
	return dispatch.Set{
		Mover:       d.Mover,
		Synthesizer: d.Synthesizer,
		Generator:   d.Generator,
		Player:      d.Player,
	}
}
