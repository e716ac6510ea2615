package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Response carries the JSON body of a plain or transfer call.
type Response struct {
	StatusCode int
	Header     http.Header
	Data       json.RawMessage
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Session is the result of the upload start phase: the endpoint the file
// bytes go to and the query parameters the server embedded in it.
type Session struct {
	UploadURL string
	Endpoint  string
	Query     url.Values
}

// NewSession reads the upload URL from start response headers.
func NewSession(h http.Header) (*Session, error) {
	raw := h.Get(HeaderUploadURL)
	if raw == "" {
		return nil, ErrMissingUploadURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUploadURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidUploadURL, raw)
	}

	query := u.Query()
	u.RawQuery = ""
	u.Fragment = ""

	return &Session{UploadURL: raw, Endpoint: u.String(), Query: query}, nil
}
