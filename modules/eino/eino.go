// Package eino generates text through an eino chat model, which lets any
// OpenAI-compatible endpoint stand in for the hosted generator.
package eino

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
)

// DefaultSystemPrompt keeps replies short enough to be spoken aloud.
const DefaultSystemPrompt = "You control a small robot. Be concise, keep all responses to 1 or two sentences."

// chatModel is the part of an eino chat model the generator needs.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// Config selects an OpenAI-compatible model.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float32
}

// Generator implements dispatch.Generator.
type Generator struct {
	model  chatModel
	system string
}

var _ dispatch.Generator = (*Generator)(nil)

// NewOpenAI builds a generator backed by the eino OpenAI chat model.
func NewOpenAI(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("eino: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("eino: model is required")
	}

	modelConfig := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	}
	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelConfig.MaxTokens = &maxTokens
	}
	if cfg.Temperature > 0 {
		temperature := cfg.Temperature
		modelConfig.Temperature = &temperature
	}

	m, err := openai.NewChatModel(ctx, modelConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}
	return newGenerator(m, cfg.SystemPrompt), nil
}

func newGenerator(m chatModel, system string) *Generator {
	if system == "" {
		system = DefaultSystemPrompt
	}
	return &Generator{model: m, system: system}
}

// Generate sends the prompt as a single user turn.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(g.system),
		schema.UserMessage(prompt),
	}
	ctxlog.FromContext(ctx).Debug("Calling chat model.", "prompt_length", len(prompt))

	out, err := g.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("error generating response: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", errors.New("chat model returned no content")
	}
	return out.Content, nil
}
