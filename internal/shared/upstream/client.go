package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"darshan/pkg/logger"
)

// ErrUnauthorized is returned when the upstream rejects the bearer token.
// Callers must treat it as a session-ending condition, not a retryable one.
var ErrUnauthorized = errors.New("upstream rejected credentials")

// StatusError reports a non-2xx upstream response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

// AuthFailureHook is invoked whenever an upstream call comes back 401/403,
// so the owning session can be torn down before the error propagates.
type AuthFailureHook func(ctx context.Context)

// Config holds upstream client configuration
type Config struct {
	// Target names the collaborator in logs ("booking-api", "guest-auth")
	Target  string
	BaseURL string
	Timeout time.Duration
}

// Client is a preconfigured request client for one upstream collaborator:
// base URL, timeout, bearer-token injection and 401/403 invalidation.
type Client struct {
	target        string
	baseURL       string
	http          *http.Client
	onAuthFailure AuthFailureHook
	log           *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithAuthFailureHook registers the session-invalidation callback
func WithAuthFailureHook(hook AuthFailureHook) Option {
	return func(c *Client) {
		c.onAuthFailure = hook
	}
}

// New creates an upstream client
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second // important for weak networks
	}

	c := &Client{
		target:  cfg.Target,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON performs a GET request and returns the raw JSON body
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, bearer string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, bearer)
}

// PostJSON performs a POST request with a JSON body and returns the raw JSON body
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, body interface{}, bearer string) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, query, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, bearer)
}

// PostForm performs a POST request with a form-encoded body and returns the raw JSON body
func (c *Client) PostForm(ctx context.Context, path string, query url.Values, form url.Values) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, query, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, "")
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(ctx context.Context, req *http.Request, bearer string) (json.RawMessage, error) {
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.target, err)
	}
	defer resp.Body.Close()

	c.log.LogUpstreamCall(ctx, c.target, req.URL.Path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.target, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if c.onAuthFailure != nil {
			c.onAuthFailure(ctx)
		}
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return json.RawMessage(body), nil
}
