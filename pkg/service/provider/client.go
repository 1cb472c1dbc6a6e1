package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
	"github.com/secmon-lab/reachout/pkg/utils/safe"
)

const maxErrorBody = 64 * 1024

// AuthFunc sets the credentials on an outgoing request
type AuthFunc func(h http.Header)

// BearerAuth sends token as an Authorization bearer token
func BearerAuth(token string) AuthFunc {
	return func(h http.Header) {
		h.Set("Authorization", "Bearer "+token)
	}
}

// HeaderAuth sends key in the named header
func HeaderAuth(name, key string) AuthFunc {
	return func(h http.Header) {
		h.Set(name, key)
	}
}

// Request describes one call to a provider API
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Gated marks an endpoint that answers 404 when the account's tier lacks the feature
	Gated   bool
	Feature string
}

// Client is a JSON HTTP client bound to one provider API
type Client struct {
	name    string
	baseURL string
	auth    AuthFunc
	http    *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The caller owns its timeout.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.http = c
	}
}

// NewClient creates a client for the provider called name. timeout bounds every request.
func NewClient(name, baseURL string, timeout time.Duration, auth AuthFunc, opts ...ClientOption) *Client {
	c := &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes a JSON response into out when out is non-nil
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.wrap(req, "failed to decode response", err)
	}
	return nil
}

// DoRaw sends req and returns the response body of a successful call
func (c *Client) DoRaw(ctx context.Context, req Request) ([]byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, c.wrap(req, "failed to encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return nil, c.wrap(req, "failed to build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		c.auth(httpReq.Header)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.wrap(req, "request failed", err)
	}
	defer safe.Drain(ctx, resp.Body)

	logging.From(ctx).Debug("provider request",
		slog.String("provider", c.name),
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, c.statusError(req, resp.StatusCode, raw)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.wrap(req, "failed to read response", err)
	}
	return body, nil
}

func (c *Client) wrap(req Request, msg string, cause error) *Error {
	return &Error{
		Provider: c.name,
		Message:  msg,
		cause: goerr.Wrap(cause, msg,
			goerr.V("provider", c.name),
			goerr.V("method", req.Method),
			goerr.V("path", req.Path)),
	}
}

func (c *Client) statusError(req Request, status int, body []byte) *Error {
	e := &Error{
		Provider:   c.name,
		Message:    errorMessage(body, http.StatusText(status)),
		HTTPStatus: status,
		Body:       string(body),
	}
	if req.Gated && status == http.StatusNotFound {
		e.tierUnsupported = true
		if req.Feature != "" {
			e.Message = req.Feature + " is not available at this access tier"
		}
	}
	return e
}

// errorMessage extracts a human readable message from a provider error body
func errorMessage(body []byte, fallback string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error", "detail", "msg"} {
			switch v := payload[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if m, ok := v["message"].(string); ok && m != "" {
					return m
				}
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return fallback
}
