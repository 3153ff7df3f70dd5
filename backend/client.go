// Package backend is the typed REST client for the remote astrology backend,
// the system of record for credits, bookings, availability and settings.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"astraguru/utils"

	"go.uber.org/zap"
)

// Client talks JSON over HTTPS to the astrology backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do executes a request and returns the status code with the raw body.
// Transport-level failures come back as *NetworkError; the caller sees
// nothing it could mistake for an authoritative backend answer.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode %s %s payload: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.GetLogger().Warn("backend request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return 0, nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	return resp.StatusCode, data, nil
}

func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
