// Package request is the preconfigured HTTP client for the todo backend.
// Nothing in the todo core calls it; it only has to exist and be ready.
package request

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the per-request ceiling.
const DefaultTimeout = 5000 * time.Millisecond

// ErrNoBaseURL is returned when a request is built without a base URL.
var ErrNoBaseURL = errors.New("no base URL configured (set TODO_BASE_API)")

// Config describes the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

// Client joins request paths onto a base URL.
type Client struct {
	base  *url.URL
	token string
	HTTP  *http.Client
}

// New validates cfg and builds a client. An empty BaseURL is allowed; the
// error surfaces when a request is built.
func New(cfg Config) (*Client, error) {
	c := &Client{token: stripBearer(strings.TrimSpace(cfg.Token))}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c.HTTP = &http.Client{Timeout: cfg.Timeout}

	if raw := strings.TrimSpace(cfg.BaseURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.base = u
	}
	return c, nil
}

// BaseURL is the resolved base, or "" when unset.
func (c *Client) BaseURL() string {
	if c.base == nil {
		return ""
	}
	return c.base.String()
}

// Timeout is the per-request ceiling.
func (c *Client) Timeout() time.Duration { return c.HTTP.Timeout }

// HasToken reports whether requests carry an Authorization header.
func (c *Client) HasToken() bool { return c.token != "" }

// NewRequest resolves path against the base URL (url = base url + request url).
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.base == nil {
		return nil, ErrNoBaseURL
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// Do sends req with the configured client.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.HTTP.Do(req)
}

// Ping issues GET on the base URL and returns the status code.
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, "", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
