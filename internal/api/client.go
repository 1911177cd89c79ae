// Package api is a small REST client for the non-streaming Sahayak
// endpoints used alongside generation.
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

	"github.com/sahayak-app/sahayak/internal/artifact"
	"github.com/sahayak-app/sahayak/internal/debug"
)

// DefaultTimeout bounds a single REST call.
const DefaultTimeout = 30 * time.Second

// Error is a non-success response from the API.
type Error struct {
	Code    int
	Method  string
	URL     string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
}

// Client talks to the Sahayak REST API.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(cl *Client) {
		if key != "" {
			cl.headers["Authorization"] = "Bearer " + key
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(cl *Client) {
		for k, v := range headers {
			cl.headers[k] = v
		}
	}
}

// New creates a client rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassMaterialPath returns the class-materials endpoint for an artifact kind.
func ClassMaterialPath(topicID, dayID string, kind artifact.Kind) string {
	return fmt.Sprintf("/api/topics/%s/days/%s/class-materials/%s",
		url.PathEscape(topicID), url.PathEscape(dayID), kind.Slug())
}

// SaveClassMaterial stores a reviewed artifact as the class material for
// a topic on a day.
func (c *Client) SaveClassMaterial(ctx context.Context, topicID, dayID string, a artifact.Artifact) error {
	if topicID == "" || dayID == "" {
		return fmt.Errorf("saving class material: topic and day are required")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("saving class material: %w", err)
	}

	body, err := artifact.Encode(a)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, ClassMaterialPath(topicID, dayID, a.Kind()), body, nil)
}

// GetClassMaterial fetches the stored class material of a kind. It returns
// an *Error with Code 404 when none has been saved.
func (c *Client) GetClassMaterial(ctx context.Context, topicID, dayID string, kind artifact.Kind) (artifact.Artifact, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, ClassMaterialPath(topicID, dayID, kind), nil, &raw); err != nil {
		return nil, err
	}
	return artifact.Decode(kind, raw)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	debug.Event("api", method, endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096)) //nolint:errcheck // best effort
		return &Error{Code: resp.StatusCode, Method: method, URL: endpoint, Message: errorMessage(msg)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}

// errorMessage extracts {"detail": "..."} or {"error": "..."} from an
// error body, falling back to the trimmed text.
func errorMessage(body []byte) string {
	var payload struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if s, ok := payload.Detail.(string); ok && s != "" {
			return s
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
