package client

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

	"github.com/dmitrijs2005/docproc/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// HTTPClient talks JSON to the REST backend rooted at baseURL. It holds no
// session state: the bearer token is read from the TokenSource per request.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	tokens   TokenSource
	observer Observer
	logger   logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets a per-request timeout regardless of option order. It is
// applied to a copy, so a client passed via WithHTTPClient is not modified.
// Zero keeps the underlying client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

func WithObserver(o Observer) Option {
	return func(c *HTTPClient) { c.observer = o }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// request describes one call. route is the path template used in errors and
// metric labels ("/documents/:id/"); path is the concrete one.
type request struct {
	method      string
	route       string
	path        string
	body        io.Reader
	contentType string
}

func jsonRequest(method, route, path string, payload any) (request, error) {
	r := request{method: method, route: route, path: path}
	if payload == nil {
		return r, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("%s %s: encode body: %w", method, route, err)
	}
	r.body = bytes.NewReader(b)
	r.contentType = "application/json"
	return r, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, r request) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", r.method, r.route, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s %s: read access token: %w", r.method, r.route, err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// do sends r and decodes a 2xx JSON body into out (when non-nil). Non-2xx
// responses become *APIError; transport failures wrap ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(r, 0, start)
		c.logger.Debug(ctx, "request failed", "method", r.method, "route", r.route,
			"request_id", req.Header.Get("X-Request-ID"), "error", err)
		return c.mapError(ctx, r, err)
	}
	defer resp.Body.Close()

	c.observe(r, resp.StatusCode, start)
	c.logger.Debug(ctx, "request done", "method", r.method, "route", r.route,
		"status", resp.StatusCode, "request_id", req.Header.Get("X-Request-ID"),
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(r, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s %s: decode response: %w", r.method, r.route, err)
	}
	return nil
}

func (c *HTTPClient) mapError(ctx context.Context, r request, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.route, ctx.Err())
	}
	return fmt.Errorf("%s %s: %w: %w", r.method, r.route, ErrUnavailable, err)
}

func (c *HTTPClient) observe(r request, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(r.method, r.route, status, time.Since(start))
	}
}

func decodeError(r request, resp *http.Response) error {
	apiErr := &APIError{Method: r.method, Route: r.route, StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(bytes.TrimSpace(body)) == 0 {
		return apiErr
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	apiErr.Payload = payload
	apiErr.Message = backendMessage(payload)
	return apiErr
}
