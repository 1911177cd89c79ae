package generation

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBusy is returned by Start while a request is already generating.
	ErrBusy = errors.New("generation already in progress")

	// ErrCancelled is reported for attempts ended by Cancel.
	ErrCancelled = errors.New("generation cancelled")

	// ErrDecode is reported when a data event cannot be parsed. The raw
	// payload is deliberately not included.
	ErrDecode = errors.New("failed to parse generation result")

	// ErrStreamClosed is reported when the stream ends without a data or
	// error event.
	ErrStreamClosed = errors.New("stream closed before a result was received")

	// ErrTimeout is reported when an attempt exceeds the session timeout.
	ErrTimeout = errors.New("generation timed out")

	// ErrNotStarted is returned by Wait and Refine on an idle session.
	ErrNotStarted = errors.New("generation not started")

	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("session closed")
)

// StatusError reports a non-success HTTP status when opening the stream.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.Code, http.StatusText(e.Code), e.URL)
}

// TransportError reports a network failure while opening or reading the stream.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError carries the text of an error event sent by the server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
