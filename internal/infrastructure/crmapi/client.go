// Package crmapi is the console's single chokepoint to the CRM REST backend.
//
// Every call attaches the stored bearer token (unless WithoutAuth is given),
// decodes JSON responses and reports failures as *domain.APIError. A 401
// clears the credential store before the error is returned; deciding what to
// do next (expire the session, redirect) is left to the caller.
package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/api/metrics"
	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config captures the backend location and the per-request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues authenticated JSON requests against the CRM backend.
type Client struct {
	baseURL string
	http    httpDoer
	store   ports.CredentialStore
	log     zerolog.Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(doer httpDoer) Option {
	return func(c *Client) { c.http = doer }
}

// New validates the base URL and returns a ready Client.
func New(cfg Config, store ports.CredentialStore, log zerolog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("crmapi: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("crmapi: base url %q must be http or https", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

type requestConfig struct {
	includeAuth bool
}

// RequestOption adjusts a single request.
type RequestOption func(*requestConfig)

// WithoutAuth suppresses the Authorization header. Used by the login,
// registration and refresh calls, which run before a token exists.
func WithoutAuth() RequestOption {
	return func(rc *requestConfig) { rc.includeAuth = false }
}

// Get issues a GET and decodes the body into T. An empty body yields nil.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*T, error) {
	return send[T](ctx, c, http.MethodGet, path, nil, opts)
}

// Post issues a POST with an optional JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*T, error) {
	return send[T](ctx, c, http.MethodPost, path, body, opts)
}

// Put issues a PUT with an optional JSON body.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*T, error) {
	return send[T](ctx, c, http.MethodPut, path, body, opts)
}

// Delete issues a DELETE.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*T, error) {
	return send[T](ctx, c, http.MethodDelete, path, nil, opts)
}

func send[T any](ctx context.Context, c *Client, method, path string, body any, opts []RequestOption) (*T, error) {
	raw, err := c.do(ctx, method, path, body, opts)
	if err != nil {
		return nil, err
	}
	return decode[T](raw)
}

func decode[T any](raw []byte) (*T, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, &domain.APIError{Kind: domain.KindDecode, Message: "malformed response body", Err: err}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []RequestOption) ([]byte, error) {
	rc := requestConfig{includeAuth: true}
	for _, opt := range opts {
		opt(&rc)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, &domain.APIError{Kind: domain.KindDecode, Message: "encode request body", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.KindNetwork, Message: err.Error(), Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if rc.includeAuth {
		if token := c.accessToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "network_error").Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("backend unreachable")
		return nil, &domain.APIError{Kind: domain.KindNetwork, Message: err.Error(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Str("request_id", requestID).
		Msg("backend call")

	raw, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.StatusCode, raw)
		if resp.StatusCode == http.StatusUnauthorized {
			metrics.APIUnauthorizedTotal.Inc()
			c.clearCredentials(ctx)
			return nil, &domain.APIError{Kind: domain.KindUnauthorized, Status: resp.StatusCode, Message: msg}
		}
		return nil, &domain.APIError{Kind: domain.KindHTTPStatus, Status: resp.StatusCode, Message: msg}
	}

	if readErr != nil {
		return nil, &domain.APIError{Kind: domain.KindDecode, Status: resp.StatusCode, Message: "read response body", Err: readErr}
	}
	return raw, nil
}

const genericErrorMessage = "An error occurred"

// errorMessage prefers the backend's JSON "message". Any other valid JSON
// (objects without one, strings, arrays, numbers, null) yields a generic
// message; a non-JSON body is used verbatim, and an empty one becomes a
// status line.
func errorMessage(status int, raw []byte) string {
	if len(raw) == 0 {
		return fmt.Sprintf("HTTP %d", status)
	}
	if !json.Valid(raw) {
		return string(raw)
	}
	var payload struct {
		Message any `json:"message"`
	}
	_ = json.Unmarshal(raw, &payload)
	if msg, ok := payload.Message.(string); ok && msg != "" {
		return msg
	}
	return genericErrorMessage
}

func (c *Client) accessToken(ctx context.Context) string {
	creds, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("credential store unavailable, sending request without bearer")
		return ""
	}
	if creds == nil {
		return ""
	}
	return creds.AccessToken
}

func (c *Client) clearCredentials(ctx context.Context) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.log.Error().Err(err).Msg("failed to clear rejected credentials")
		return
	}
	c.log.Warn().Msg("backend rejected credentials, stored tokens cleared")
}

// Reachable reports whether the backend answers HTTP at all. Any status
// counts as reachable; only transport failures are returned.
func (c *Client) Reachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
