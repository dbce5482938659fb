// Package backend talks to the robot's HTTP backend, which moves the robot
// over its message bus, speaks through the robot's speaker and proxies text
// generation. One Client serves as the Mover, Synthesizer and Generator.
package backend

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/modules/http_client"
)

// DefaultURL is where the backend listens during local development.
const DefaultURL = "http://localhost:8000"

// ErrInvalidDirection is returned for directions the backend cannot drive.
var ErrInvalidDirection = errors.New("invalid direction")

// validDirections mirrors what the backend publishes to the robot.
var validDirections = map[string]struct{}{
	dispatch.Forward: {},
	dispatch.Back:    {},
	dispatch.Left:    {},
	dispatch.Right:   {},
}

// Client is an HTTP client for the robot backend.
type Client struct {
	baseURL string
	http    *http.Client
}

var (
	_ dispatch.Mover       = (*Client)(nil)
	_ dispatch.Synthesizer = (*Client)(nil)
	_ dispatch.Generator   = (*Client)(nil)
)

// New creates a backend client. An empty baseURL selects DefaultURL.
func New(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if client == nil {
		client = http_client.New(0)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

type moveRequest struct {
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
}

// Move drives the robot. "stop" is sent to the dedicated stop endpoint.
func (c *Client) Move(ctx context.Context, direction string, value float64) (*dispatch.MoveResult, error) {
	logger := ctxlog.FromContext(ctx).With("dispatcher", "backend")
	if direction == dispatch.Stop {
		logger.Debug("Sending stop.")
		return http_client.PostJSON[dispatch.MoveResult](ctx, c.http, c.baseURL+"/api/stop", nil, nil)
	}
	if _, ok := validDirections[direction]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	logger.Debug("Sending movement.", "direction", direction, "value", value)
	res, err := http_client.PostJSON[dispatch.MoveResult](ctx, c.http, c.baseURL+"/api/move", nil,
		moveRequest{Direction: direction, Value: value})
	if err != nil {
		return nil, fmt.Errorf("backend move failed: %w", err)
	}
	return res, nil
}

type speakRequest struct {
	Text string `json:"text"`
}

type speakResponse struct {
	Status string `json:"status"`
	Audio  string `json:"audio"`
}

// Synthesize asks the backend to speak. The backend plays the audio on the
// robot and usually returns none; when it does return base64 audio, it is
// decoded for local playback.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	res, err := http_client.PostJSON[speakResponse](ctx, c.http, c.baseURL+"/api/speak", nil, speakRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("backend speak failed: %w", err)
	}
	if res.Audio == "" {
		return nil, nil
	}
	audio, err := base64.StdEncoding.DecodeString(res.Audio)
	if err != nil {
		return nil, fmt.Errorf("backend returned invalid audio: %w", err)
	}
	return audio, nil
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate proxies a prompt through the backend's model.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := http_client.PostJSON[generateResponse](ctx, c.http, c.baseURL+"/api/generate", nil, generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("backend generate failed: %w", err)
	}
	return res.Response, nil
}
