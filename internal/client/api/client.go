// Package api is the authenticated HTTP request pipeline used by the notes
// client.
//
// Every request carries the stored access token as a bearer credential. A
// 401 triggers at most one refresh of the access token followed by exactly
// one retry of the original request. When no refresh token is stored, or the
// refresh itself fails, the stored credentials are cleared, the
// session-expired callback fires and the call fails with an error matching
// ErrSessionExpired.
//
// The client does no caching, deduplication or coalescing: every call is
// independent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/google/uuid"
)

// DefaultBaseURL is the API origin used when none is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultRefreshPath is the endpoint exchanging a refresh token for a new
// access token.
const DefaultRefreshPath = "/auth/refresh"

// RequestIDHeader carries a per-call correlation id. A retried request keeps
// the id of the original one.
const RequestIDHeader = "X-Request-ID"

// TokenStore is the credential storage the client reads and updates.
type TokenStore interface {
	Access(ctx context.Context) string
	Refresh(ctx context.Context) string
	SetTokens(ctx context.Context, access, refresh string)
	Clear(ctx context.Context)
}

// Client is the authenticated request pipeline.
type Client struct {
	baseURL     string
	refreshPath string
	transport   Transport
	store       TokenStore
	logger      logging.Logger
	onExpired   func(ctx context.Context)
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSessionExpired registers the callback invoked once per irrecoverable
// session, after the stored credentials were cleared.
func WithSessionExpired(fn func(ctx context.Context)) Option {
	return func(c *Client) { c.onExpired = fn }
}

// WithRefreshPath overrides DefaultRefreshPath.
func WithRefreshPath(path string) Option {
	return func(c *Client) { c.refreshPath = path }
}

// New returns a Client talking to baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		refreshPath: DefaultRefreshPath,
		transport:   NewHTTPTransport(0),
		store:       store,
		logger:      logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends a request and decodes a JSON response into out. out may be nil,
// and is left untouched when the server returns no content.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	_, err := c.do(ctx, method, path, body, out)
	return err
}

// Request sends a request and decodes the response as T. A nil result with
// a nil error means the server returned no content.
func Request[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	ok, err := c.do(ctx, method, path, body, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

// Get is Request with GET.
func Get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	return Request[T](ctx, c, http.MethodGet, path, nil)
}

// Post is Request with POST.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	return Request[T](ctx, c, http.MethodPost, path, body)
}

// Patch is Request with PATCH.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	return Request[T](ctx, c, http.MethodPatch, path, body)
}

// Delete is Request with DELETE.
func Delete[T any](ctx context.Context, c *Client, path string) (*T, error) {
	return Request[T](ctx, c, http.MethodDelete, path, nil)
}

// do reports whether a value was decoded into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (bool, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return false, err
	}

	requestID := uuid.NewString()
	ctx = logging.WithFields(ctx, "request_id", requestID)
	log := c.logger.With("method", method, "path", path)

	resp, err := c.send(ctx, method, path, payload, c.store.Access(ctx), requestID)
	if err != nil {
		return false, err
	}

	if resp.Status == http.StatusUnauthorized {
		log.Debug(ctx, "access token rejected")
		resp, err = c.reauthorize(ctx, log, method, path, payload, requestID, resp)
		if err != nil {
			return false, err
		}
	}

	if !resp.OK() {
		return false, newRequestError(resp.Status, resp.Body)
	}

	if resp.Status == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return false, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return true, nil
}

// reauthorize handles a 401: one refresh, one retry. The retried response is
// returned as is, whatever its status.
func (c *Client) reauthorize(ctx context.Context, log logging.Logger, method, path string, payload []byte, requestID string, rejected *Response) (*Response, error) {
	cause := newRequestError(rejected.Status, rejected.Body)

	refresh := c.store.Refresh(ctx)
	if refresh == "" {
		log.Info(ctx, "no refresh token, session expired")
		return nil, c.expire(ctx, cause)
	}

	access, err := c.refresh(ctx, refresh, requestID)
	if err != nil {
		log.Warn(ctx, "token refresh failed, session expired", "error", err)
		return nil, c.expire(ctx, cause)
	}

	log.Debug(ctx, "access token refreshed, retrying")
	return c.send(ctx, method, path, payload, access, requestID)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// refresh exchanges the refresh token for a new access token and stores it.
func (c *Client) refresh(ctx context.Context, refreshToken, requestID string) (string, error) {
	payload, err := encodeBody(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}

	resp, err := c.send(ctx, http.MethodPost, c.refreshPath, payload, "", requestID)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", newRequestError(resp.Status, resp.Body)
	}

	var r refreshResponse
	if err := json.Unmarshal(resp.Body, &r); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if r.Access == "" {
		return "", fmt.Errorf("refresh response has no access token")
	}

	c.store.SetTokens(ctx, r.Access, r.Refresh)
	return r.Access, nil
}

func (c *Client) expire(ctx context.Context, cause *RequestError) error {
	c.store.Clear(ctx)
	if c.onExpired != nil {
		c.onExpired(ctx)
	}
	return &sessionError{cause: cause}
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, access, requestID string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	return resp, nil
}

func (c *Client) url(path string) string {
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}
