// Package hubapi is the client for the Hub REST API used by every portal
// page. Requests are resolved against the hubApiUrl of the portal config in
// the state holder and carry the signed-in user's access token.
package hubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/hubctl/internal/cachemanager"
	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/log"
	"github.com/zjrosen/hubctl/internal/state"
	"github.com/zjrosen/hubctl/internal/tracing"
)

const defaultTimeout = 30 * time.Second

// Request describes one Hub API call. Path is relative to the Hub API URL.
type Request struct {
	Method string
	Path   string
	Query  map[string]any
	Header http.Header
	Body   any

	// PreventAutoReLogin suppresses the unauthorized hook on a 401.
	PreventAutoReLogin bool
}

// Client talks to the Hub API.
type Client struct {
	holder         *state.Holder
	http           *http.Client
	baseURL        string
	onUnauthorized func(ctx context.Context)

	cacheTTL time.Duration
	images   *cachemanager.ReadThroughCache[string, *hub.Image, imageKey]
	versions *cachemanager.ReadThroughCache[string, *hub.Version, versionKey]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTracer records a client span for every request.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Transport = tracing.NewTransport(tracer, hc.Transport)
		c.http = &hc
	}
}

// WithBaseURL overrides hubApiUrl from the portal config.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithUnauthorizedHook sets the function run when the Hub answers 401.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithMetadataCache caches image and version lookups in cache for ttl.
func WithMetadataCache(images cachemanager.CacheManager[string, *hub.Image], versions cachemanager.CacheManager[string, *hub.Version], ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
		c.images = cachemanager.NewReadThroughCache(images, c.fetchImage, false)
		c.versions = cachemanager.NewReadThroughCache(versions, c.fetchVersion, false)
	}
}

// New creates a Client reading config and user from holder.
func New(holder *state.Holder, opts ...Option) *Client {
	c := &Client{
		holder: holder,
		http:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.images == nil {
		c.images = cachemanager.NewReadThroughCache[string, *hub.Image](nil, c.fetchImage, true)
		c.versions = cachemanager.NewReadThroughCache[string, *hub.Version](nil, c.fetchVersion, true)
	}
	return c
}

// Do performs an authenticated request and decodes a JSON answer into out
// when out is non-nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	return c.do(ctx, req, out, true)
}

// DoPublic performs a request without the Authorization header.
func (c *Client) DoPublic(ctx context.Context, req Request, out any) error {
	return c.do(ctx, req, out, false)
}

func (c *Client) baseURLFor() (string, error) {
	if c.baseURL != "" {
		return c.baseURL, nil
	}
	cfg := c.holder.Config()
	if !cfg.Ready() {
		return "", ErrNoHubURL
	}
	return strings.TrimRight(cfg.HubAPIURL, "/"), nil
}

func (c *Client) do(ctx context.Context, req Request, out any, authenticated bool) error {
	base, err := c.baseURLFor()
	if err != nil {
		return err
	}
	qs, err := GenerateQueryParamString(req.Query)
	if err != nil {
		return err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch {
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	case method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch:
		body = strings.NewReader("{}")
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, base+req.Path+qs, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if u := c.holder.User(); u != nil && u.AccessToken != "" {
			httpReq.Header.Set("Authorization", "Bearer "+u.AccessToken)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.ErrorErr(log.CatHub, "request failed", err, "method", method, "path", req.Path)
		return fmt.Errorf("%s %s: %w", method, req.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response of %s %s: %w", method, req.Path, err)
	}
	log.Debug(log.CatHub, "request done", "method", method, "path", req.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		if out == nil || len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response of %s %s: %w", method, req.Path, err)
		}
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	_ = json.Unmarshal(data, apiErr)
	if resp.StatusCode == http.StatusUnauthorized && !req.PreventAutoReLogin && c.onUnauthorized != nil {
		log.Warn(log.CatHub, "unauthorized, clearing session", "path", req.Path)
		c.onUnauthorized(ctx)
	}
	return apiErr
}
