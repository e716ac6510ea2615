package transport

import (
	"errors"
	"fmt"
)

var (
	ErrTransport              = errors.New("transport failure")
	ErrUnserializableResponse = errors.New("unserializable response")
	ErrMissingUploadURL       = errors.New("failed to obtain upload URL")
	ErrInvalidUploadURL       = errors.New("invalid upload URL")
	ErrUnexpectedKind         = errors.New("unexpected request kind")
	ErrUnexpectedStatus       = errors.New("unexpected response status")
)

// APIError is an error object returned by the server with status >= 400.
type APIError struct {
	Code    int
	Message string
	Status  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Code, e.Status, e.Message)
}

// TransportError wraps a failure of the underlying HTTP client. URL never
// contains the query string since it may carry the API key.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
