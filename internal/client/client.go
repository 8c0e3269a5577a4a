package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HealthPath is the auth service health endpoint, relative to the base URL.
const HealthPath = "/auth/v1/health"

const defaultUserAgent = "authkeys"

// ErrRejected is returned when the auth endpoint answers with a non-2xx status.
var ErrRejected = errors.New("auth endpoint rejected api key")

// Client is the underlying raw client for talking to an auth service.
type Client struct {
	cfg *Config
}

func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Client{cfg}
}

// CheckHealth calls the health endpoint under baseURL using apiKey as the
// credential. It returns nil only for a 2xx response.
//
// The request is bounded by the configured timeout regardless of ctx, so a
// hung endpoint cannot stall the caller indefinitely.
func (c *Client) CheckHealth(ctx context.Context, baseURL, apiKey string) error {
	if baseURL == "" {
		return errors.New("no auth base url configured")
	}

	timeout := c.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+HealthPath, nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	userAgent := c.cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("apikey", apiKey)

	httpClient := c.cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected response status %s", ErrRejected, resp.Status)
	}
	return nil
}
