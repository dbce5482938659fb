// Package print provides dry-run dispatchers. They log every call and write
// a line per call to an io.Writer instead of touching the robot or any model
// API, so a flow can be exercised end to end on a laptop.
package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
)

// EchoPrefix marks generated text produced by the dry-run generator.
const EchoPrefix = "echo: "

// Printer implements dispatch.Mover, dispatch.Synthesizer and
// dispatch.Generator.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

var (
	_ dispatch.Mover       = (*Printer)(nil)
	_ dispatch.Synthesizer = (*Printer)(nil)
	_ dispatch.Generator   = (*Printer)(nil)
)

// New returns a Printer writing to w. A nil w writes to stdout.
func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

func (p *Printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) Move(ctx context.Context, direction string, value float64) (*dispatch.MoveResult, error) {
	ctxlog.FromContext(ctx).Info("Printing movement", "direction", direction, "value", value)
	p.printf("      move %s %g\n", direction, value)
	msg := "Moving " + direction
	if direction == dispatch.Stop {
		msg = "Robot stopped"
	}
	return &dispatch.MoveResult{Status: "success", Message: msg}, nil
}

// Synthesize prints the text and returns no audio.
func (p *Printer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctxlog.FromContext(ctx).Info("Printing speech", "chars", len(text))
	p.printf("      say %q\n", text)
	return nil, nil
}

// Generate echoes the prompt's first line.
func (p *Printer) Generate(ctx context.Context, prompt string) (string, error) {
	ctxlog.FromContext(ctx).Info("Printing prompt", "chars", len(prompt))
	p.printf("      prompt %q\n", prompt)
	first, _, _ := strings.Cut(prompt, "\n")
	return EchoPrefix + first, nil
}

// Discard is a Player that drops audio.
type Discard struct{}

func (Discard) Play(ctx context.Context, audio []byte) error {
	ctxlog.FromContext(ctx).Debug("Discarding audio", "bytes", len(audio))
	return nil
}

// FileSink is a Player that writes each clip to a numbered file in Dir.
type FileSink struct {
	Dir string
	Ext string
	n   atomic.Int64
}

// NewFileSink creates dir if needed. ext defaults to "mp3".
func NewFileSink(dir, ext string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	if ext == "" {
		ext = "mp3"
	}
	return &FileSink{Dir: dir, Ext: strings.TrimPrefix(ext, ".")}, nil
}

func (s *FileSink) Play(ctx context.Context, audio []byte) error {
	name := filepath.Join(s.Dir, fmt.Sprintf("speech-%03d.%s", s.n.Add(1), s.Ext))
	if err := os.WriteFile(name, audio, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Wrote audio", "path", name, "bytes", len(audio))
	return nil
}

// Set returns a dispatch set printing to w and discarding audio.
func Set(w io.Writer) dispatch.Set {
	p := New(w)
	return dispatch.Set{Mover: p, Synthesizer: p, Generator: p, Player: Discard{}}
}
