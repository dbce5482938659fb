// Package elevenlabs synthesizes speech with the ElevenLabs text-to-speech API.
package elevenlabs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/modules/http_client"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io"
	DefaultVoice   = "TxGEqnHWrfWFTfGW9XjX"
	DefaultModel   = "eleven_multilingual_v2"
)

type Config struct {
	APIKey  string
	Voice   string
	Model   string
	BaseURL string
}

// Client implements dispatch.Synthesizer.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ dispatch.Synthesizer = (*Client)(nil)

func New(cfg Config, client *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("elevenlabs: api key is required")
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
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

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize returns the encoded audio for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctxlog.FromContext(ctx).Debug("Calling elevenlabs.", "voice", c.cfg.Voice, "chars", len(text))

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.cfg.BaseURL, url.PathEscape(c.cfg.Voice))
	headers := map[string]string{
		"xi-api-key": c.cfg.APIKey,
		"Accept":     "audio/mpeg",
	}
	body := speechRequest{
		Text:          text,
		ModelID:       c.cfg.Model,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.5},
	}
	audio, err := http_client.Post(ctx, c.http, endpoint, headers, body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesis failed: %w", err)
	}
	return audio, nil
}
