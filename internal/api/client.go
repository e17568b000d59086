// Package api implements the typed HTTP+JSON client for the remote
// storefront backend. All state-bearing logic lives in the session,
// cart and wishlist packages; this package only speaks the wire
// contract.
package api

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

	"shopfront/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Error is a non-2xx response from the backend, with the
// server-provided reason extracted from the body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsUnauthorized reports whether err is an API error with HTTP status
// 401 or 403. Such errors trigger the global session teardown policy.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithBearer attaches a bearer token to the request.
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// Client is the remote storefront API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new API client for the configured backend origin.
func New(cfg config.APIConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "api-client").Logger(),
	}
}

// errorBody is the error envelope the backend uses for non-2xx
// responses; some endpoints use "message", others "error".
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs a JSON request against path. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("request failed")
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer res.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.decodeError(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}

	return nil
}

// decodeError extracts the server-provided reason from an error response.
func (c *Client) decodeError(res *http.Response) error {
	apiErr := &Error{Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}

	var body errorBody
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else if body.Error != "" {
			apiErr.Message = body.Error
		}
	}

	c.logger.Warn().
		Int("status", apiErr.Status).
		Str("message", apiErr.Message).
		Msg("api error response")

	return apiErr
}

func (c *Client) get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts...)
}
