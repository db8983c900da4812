// Package gateway is the single place outbound API calls go through.
// Every call gets the stored credential attached, a deadline, and a
// uniform failure shape: callers only ever see *APIError.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JoelChinoP/voting-system-front/internal/credstore"
)

const (
	// DefaultBaseURL matches the local development API.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultTimeout bounds every request end to end.
	DefaultTimeout = 5000 * time.Millisecond

	requestIDHeader = "X-Request-ID"
)

// APIError is the one failure shape this layer produces. Status 0 means
// the request never got an HTTP answer (timeout, connection failure);
// any other status is the server's classification. Data carries the
// decoded response body when one was received.
type APIError struct {
	Status  int
	Message string
	Data    any
}

func (e *APIError) Error() string {
	return e.Message
}

// Client issues API requests against a fixed base URL. No retries are
// performed here; retry policy belongs to callers.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	store   credstore.Store
	log     zerolog.Logger
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient substitutes the underlying transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithStore wires the credential slot: requests carry its token as a
// bearer header, and a 401 response clears it.
func WithStore(s credstore.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithLogger attaches a request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithCredentials turns on cookie handling for the client. The default
// is no jar, the same-origin-only analog.
func WithCredentials() Option {
	return func(c *Client) {
		jar, err := cookiejar.New(nil)
		if err == nil {
			c.http.Jar = jar
		}
	}
}

// New creates a gateway client. An empty baseURL falls back to
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call collects per-request options.
type call struct {
	headers http.Header
}

// CallOption adjusts a single request.
type CallOption func(*call)

// WithHeader sets a request header. Caller headers win over the
// gateway's defaults.
func WithHeader(key, value string) CallOption {
	return func(c *call) {
		if c.headers == nil {
			c.headers = http.Header{}
		}
		c.headers.Set(key, value)
	}
}

// Get issues a GET and decodes the response into out (may be nil).
func (c *Client) Get(ctx context.Context, endpoint string, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out, opts...)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out, opts...)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out, opts...)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, endpoint string, out any, opts ...CallOption) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out, opts...)
}

// Do performs one request. body is JSON-encoded when non-nil; out, when
// non-nil, receives the decoded response (JSON, or raw text into a
// *string). Failures always come back as *APIError:
//
//	status 0:       timeout or transport failure, no HTTP answer
//	status 4xx/5xx: server classification, remapped for the statuses
//	the session layer cares about (401/403/404/500)
//
// A 401 additionally clears the credential slot: the token is dead and
// keeping it would just replay the failure.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any, opts ...CallOption) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Status: 0, Message: "connection error: " + err.Error()}
		}
		reqBody = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return &APIError{Status: 0, Message: "connection error: " + err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.store != nil {
		if token, err := c.store.Get(); err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	var opt call
	for _, o := range opts {
		o(&opt)
	}
	for key, values := range opt.headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn().Str("method", method).Str("endpoint", endpoint).Msg("request timed out")
			return &APIError{Status: 0, Message: "request aborted due to timeout exceeded"}
		}
		return &APIError{Status: 0, Message: "connection error: " + err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		// The deadline can also fire mid-read, after headers arrived.
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn().Str("method", method).Str("endpoint", endpoint).Msg("request timed out")
			return &APIError{Status: 0, Message: "request aborted due to timeout exceeded"}
		}
		return &APIError{Status: 0, Message: "connection error: " + err.Error()}
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	var payload any
	if isJSON {
		_ = json.Unmarshal(data, &payload)
	} else {
		payload = string(data)
	}

	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(requestIDHeader)).
		Msg("api request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return c.remap(&APIError{
			Status:  resp.StatusCode,
			Message: responseMessage(payload, resp.StatusCode),
			Data:    payload,
		})
	}

	if out == nil {
		return nil
	}
	if isJSON {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Status: 0, Message: "connection error: " + err.Error()}
		}
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(data)
		return nil
	}
	return &APIError{Status: 0, Message: "connection error: unexpected non-JSON response"}
}

// remap rewrites the statuses the auth layer reacts to. It only ever
// sees errors produced by this gateway, never wrapped errors from
// deeper layers.
func (c *Client) remap(e *APIError) *APIError {
	switch e.Status {
	case http.StatusUnauthorized:
		// Forced logout: the server no longer honors this credential.
		if c.store != nil {
			if err := c.store.Remove(); err != nil {
				c.log.Warn().Err(err).Msg("failed to clear credential after 401")
			}
		}
		return &APIError{Status: e.Status, Message: "invalid credentials", Data: e.Data}
	case http.StatusForbidden:
		return &APIError{Status: e.Status, Message: "access denied", Data: e.Data}
	case http.StatusNotFound:
		return &APIError{Status: e.Status, Message: "resource not found", Data: e.Data}
	case http.StatusInternalServerError:
		return &APIError{Status: e.Status, Message: "internal server error", Data: e.Data}
	default:
		return e
	}
}

// responseMessage prefers the server-supplied message, falling back to
// a generic status line.
func responseMessage(payload any, status int) string {
	if m, ok := payload.(map[string]any); ok {
		for _, key := range []string{"message", "error"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
}
