package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUpstreamUnavailable covers every way the answering service can fail:
// connection-level errors, non-2xx statuses, and unparseable bodies. Callers
// match it with errors.Is and surface the wrapped diagnostic.
var ErrUpstreamUnavailable = errors.New("ai service is unavailable")

// Config locates the answering service. Timeout bounds the single synchronous
// call; there are no retries.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type AskRequest struct {
	Prompt    string `json:"prompt"`
	ProjectID uint   `json:"project_id"`
	User      string `json:"user"`
}

// AskResponse mirrors the answering service's body. Answer stays empty when
// the field is absent.
type AskResponse struct {
	Answer    string `json:"answer"`
	ProjectID *uint  `json:"project_id,omitempty"`
	User      string `json:"user,omitempty"`
}

func (c *Client) Ask(ctx context.Context, request AskRequest) (*AskResponse, error) {
	bodyBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal ask request failed: %w", err)
	}

	url := c.baseURL + "/ask"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build ask request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ai service connection error: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read ai service response failed: %v", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: ai service error %d: %s", ErrUpstreamUnavailable, resp.StatusCode, string(raw))
	}

	var parsed AskResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse ai service response failed: %v", ErrUpstreamUnavailable, err)
	}
	return &parsed, nil
}
