// Package geminitest provides a programmable stand-in for gemini.Client.
package geminitest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gemini-go/files"
	"github.com/stretchr/testify/assert"
)

// ResourceFiles names calls made through FileManager.
const ResourceFiles = "files"

var (
	ErrNoFakeResponses = errors.New("no fake responses left")
	ErrInvalidResponse = errors.New("invalid fake response")
)

// Request is one recorded call.
type Request struct {
	Resource string
	Method   string
	Args     []any
}

// ClientFake records calls and answers them with queued responses in order.
// A queued error is returned instead of a value.
type ClientFake struct {
	mu        sync.Mutex
	responses []any
	requests  []Request
}

func NewClientFake(responses ...any) *ClientFake {
	return &ClientFake{responses: responses}
}

func (f *ClientFake) AddResponses(responses ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, responses...)
}

func (f *ClientFake) FileManager() files.FileManager {
	return &fileManager{fake: f}
}

// Requests returns a copy of the recorded calls.
func (f *ClientFake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

func (f *ClientFake) record(resource, method string, args ...any) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, Request{Resource: resource, Method: method, Args: args})

	if len(f.responses) == 0 {
		return nil, ErrNoFakeResponses
	}
	r := f.responses[0]
	f.responses = f.responses[1:]

	if err, ok := r.(error); ok {
		return nil, err
	}
	return r, nil
}

// sent returns the calls to resource accepted by match; a nil match accepts
// all.
func (f *ClientFake) sent(resource string, match func(method string, args []any) bool) []Request {
	var out []Request
	for _, r := range f.Requests() {
		if r.Resource != resource {
			continue
		}
		if match == nil || match(r.Method, r.Args) {
			out = append(out, r)
		}
	}
	return out
}

func (f *ClientFake) AssertSent(t assert.TestingT, resource string, match func(method string, args []any) bool) bool {
	helper(t)
	return assert.NotEmpty(t, f.sent(resource, match), "The expected [%s] request was not sent.", resource)
}

func (f *ClientFake) AssertSentTimes(t assert.TestingT, resource string, times int) bool {
	helper(t)
	n := len(f.sent(resource, nil))
	return assert.Equal(t, times, n, "The expected [%s] resource was sent %d times instead of %d times.", resource, n, times)
}

func (f *ClientFake) AssertNotSent(t assert.TestingT, resource string, match func(method string, args []any) bool) bool {
	helper(t)
	return assert.Empty(t, f.sent(resource, match), "The unexpected [%s] request was sent.", resource)
}

func (f *ClientFake) AssertNothingSent(t assert.TestingT) bool {
	helper(t)
	reqs := f.Requests()
	names := make([]string, 0, len(reqs))
	for _, r := range reqs {
		names = append(names, r.Resource)
	}
	return assert.Empty(t, reqs, "The following requests were sent unexpectedly: %s", strings.Join(names, ", "))
}

type fileManager struct {
	fake *ClientFake
}

func (m *fileManager) UploadFile(ctx context.Context, filePath, displayName, mimeType string) (*files.UploadedFile, error) {
	r, err := m.fake.record(ResourceFiles, "UploadFile", filePath, displayName, mimeType)
	if err != nil {
		return nil, err
	}

	switch v := r.(type) {
	case *files.UploadedFile:
		return v, nil
	case files.UploadedFile:
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: %T for UploadFile", ErrInvalidResponse, r)
	}
}

func (m *fileManager) GetFile(ctx context.Context, name string) (*files.File, error) {
	r, err := m.fake.record(ResourceFiles, "GetFile", name)
	if err != nil {
		return nil, err
	}

	switch v := r.(type) {
	case *files.File:
		return v, nil
	case files.File:
		return &v, nil
	default:
		return nil, fmt.Errorf("%w: %T for GetFile", ErrInvalidResponse, r)
	}
}

func (m *fileManager) DeleteFile(ctx context.Context, name string) error {
	_, err := m.fake.record(ResourceFiles, "DeleteFile", name)
	return err
}

func helper(t assert.TestingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
}
