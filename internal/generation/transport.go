package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sahayak-app/sahayak/internal/debug"
)

// Transport opens the event stream for a request.
type Transport interface {
	// Open POSTs the request and returns the response body positioned at
	// the start of the event stream. A non-success status is reported as
	// *StatusError; ctx cancellation aborts both connect and reads.
	Open(ctx context.Context, req Request) (io.ReadCloser, error)
}

// HTTPTransport is a Transport over net/http.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default client. The client must not set a
// Timeout, which would cut long-lived streams.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(t *HTTPTransport) {
		t.headers[key] = value
	}
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) HTTPOption {
	return func(t *HTTPTransport) {
		if key != "" {
			t.headers["Authorization"] = "Bearer " + key
		}
	}
}

// NewHTTPTransport creates a transport rooted at baseURL.
func NewHTTPTransport(baseURL string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open implements Transport.
func (t *HTTPTransport) Open(ctx context.Context, req Request) (io.ReadCloser, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", req.Kind(), err)
	}

	endpoint := t.baseURL + req.Path()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}

	debug.Event("transport", "POST", fmt.Sprintf("url=%s thread=%s", endpoint, req.Thread()))

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		resp.Body.Close()
		debug.Event("transport", "status", fmt.Sprintf("url=%s code=%d", endpoint, resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	return resp.Body, nil
}
