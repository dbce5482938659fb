// Package http_client provides the shared HTTP client of the dispatchers and
// the JSON request helpers they use to talk to the robot backend and to
// hosted model APIs.
package http_client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultTimeout bounds a single dispatcher call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 500

// New returns a client with pooled connections and the given timeout. A
// non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Close releases idle connections of a client created by New.
func Close(client *http.Client) {
	client.CloseIdleConnections()
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}

// PostJSON sends body as JSON and decodes a JSON response into Out.
func PostJSON[Out any](ctx context.Context, client *http.Client, url string, headers map[string]string, body any) (*Out, error) {
	respBody, err := Post(ctx, client, url, headers, body)
	if err != nil {
		return nil, err
	}
	var out Out
	if len(bytes.TrimSpace(respBody)) == 0 {
		return &out, nil
	}
	if err := sonic.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("error unmarshaling response body: %w (preview: %s)", err, truncate(string(respBody)))
	}
	return &out, nil
}

// Post sends body as JSON and returns the raw response body.
func Post(ctx context.Context, client *http.Client, url string, headers map[string]string, body any) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr.Error(), "url", url)
		}
	}()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: res.StatusCode, Body: truncate(string(respBody))}
	}
	return respBody, nil
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
