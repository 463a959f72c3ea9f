package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a remote answer service over its JSON HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the answer service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured service endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ServerError is a non-2xx reply from the answer service.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("answer service returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("answer service returned %d", e.Status)
}

// UserMessage is the server-provided text suitable for direct display,
// empty when the server gave none.
func (e *ServerError) UserMessage() string {
	return e.Detail
}

// Answer asks the service one question in a platform context and returns
// the reply text. Non-2xx statuses and replies without answer text are
// errors.
func (c *Client) Answer(ctx context.Context, question, platform string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"message":  question,
		"platform": platform,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed struct {
			Detail string `json:"detail"`
		}
		json.Unmarshal(respBody, &parsed) // best effort
		return "", &ServerError{Status: resp.StatusCode, Detail: parsed.Detail}
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return "", fmt.Errorf("response payload has no answer text")
	}
	return parsed.Response, nil
}

// Health probes the service health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ServerError{Status: resp.StatusCode}
	}
	return nil
}
