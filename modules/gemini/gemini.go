// Package gemini generates text with Google's Gemini REST API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/modules/http_client"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
	// ConciseSuffix is appended to every prompt to keep spoken replies short.
	ConciseSuffix = "\n Be Concise, keep all responses to 1 or two sentences"
)

// ErrEmptyResponse is returned when the API answers without any text.
var ErrEmptyResponse = errors.New("gemini returned no text")

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// Verbose disables the conciseness suffix.
	Verbose bool
}

// Client implements dispatch.Generator.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ dispatch.Generator = (*Client)(nil)

// New creates a Gemini client. An API key is required.
func New(cfg Config, client *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = http_client.New(0)
	}
	return &Client{cfg: cfg, http: client}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
}

// Generate sends a single-turn prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.cfg.Verbose {
		prompt += ConciseSuffix
	}
	ctxlog.FromContext(ctx).Debug("Calling gemini.", "model", c.cfg.Model)

	req := generateRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	headers := map[string]string{"x-goog-api-key": c.cfg.APIKey}
	res, err := http_client.PostJSON[generateResponse](ctx, c.http, c.endpoint(), headers, req)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(res.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range res.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
