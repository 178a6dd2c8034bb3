package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"botpanel/internal/session"
)

// DefaultTimeout bounds each request; the wrapper never retries, so a
// single slow call is the worst case.
const DefaultTimeout = 30 * time.Second

// Client wraps all traffic to the bot backend. It attaches the bearer
// token from the session store to every outgoing request and clears the
// store when the backend answers 401. It is safe for concurrent use and is
// constructed once per process.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     zerolog.Logger
}

// New builds a client for baseURL (including the /api prefix, no trailing
// slash needed). The store is read for the token on every call and is the
// target of the 401 logout side effect.
func New(baseURL string, store *session.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		store:   store,
		log:     log,
	}
}

// SetHTTPClient swaps the underlying http.Client; used by tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// BaseURL returns the configured endpoint base.
func (c *Client) BaseURL() string { return c.baseURL }

type callConfig struct {
	headers http.Header
	query   url.Values
}

// CallOption adjusts a single request.
type CallOption func(*callConfig)

// WithHeader adds one request header.
func WithHeader(key, value string) CallOption {
	return func(cfg *callConfig) { cfg.headers.Set(key, value) }
}

// WithQuery adds one query parameter.
func WithQuery(key, value string) CallOption {
	return func(cfg *callConfig) { cfg.query.Set(key, value) }
}

// Get issues a GET and decodes the response into out when non-nil.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// do runs one request end to end: token injection, JSON codec, error
// mapping, and the 401 logout side effect. Every call is fire-once; there
// is no retry or queuing here.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	cfg := &callConfig{headers: http.Header{}, query: url.Values{}}
	for _, opt := range opts {
		opt(cfg)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(cfg.query) > 0 {
		target += "?" + cfg.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for key, values := range cfg.headers {
		for _, v := range values {
			req.Header.Set(key, v)
		}
	}
	// The caller may pre-set Authorization (the login flow fetches the
	// profile before the store is updated); otherwise inject the stored
	// token. No token means the request goes out unauthenticated.
	if req.Header.Get("Authorization") == "" {
		if token := c.store.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Detail: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Detail: "read response: " + err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Cross-cutting rule: an authorization failure invalidates the
		// whole session. The error still reaches the caller, which owns
		// any navigation away from protected content.
		c.log.Debug().Str("path", path).Msg("401 from backend, clearing session")
		if err := c.store.Logout(); err != nil {
			c.log.Warn().Err(err).Msg("logout after 401 failed to persist")
		}
		return newError(resp.StatusCode, payload)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, payload)
	}

	if out != nil && len(payload) > 0 && resp.StatusCode != http.StatusNoContent {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
