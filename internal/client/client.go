// Package client posts contact form submissions to a relay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/version"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	defaultTimeout = 30 * time.Second
	// Responses are small JSON documents
	maxResponseBytes = 1 << 20
)

// Response is the JSON body returned by the relay
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	EmailID string `json:"emailId,omitempty"`
	Error   string `json:"error,omitempty"`
	// Status is only set by the health check
	Status string `json:"status,omitempty"`

	StatusCode int `json:"-"`
}

// Client talks to a relay over HTTP. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the relay at baseURL
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts sub once. Any decoded body is returned, including error
// bodies; err is only set when no relay response could be read.
func (c *Client) Send(ctx context.Context, sub contact.Submission) (*Response, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-email", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Health fetches the relay status
func (c *Client) Health(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "contactrelay/"+version.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	out.StatusCode = resp.StatusCode

	return &out, nil
}
