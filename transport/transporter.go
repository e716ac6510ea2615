package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/gemini-go/logging"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/dmitrijs2005/gemini-go/transport"

// Transporter is what resources need from the transport layer.
type Transporter interface {
	// Send performs a plain or upload-transfer request and returns its JSON body.
	Send(ctx context.Context, req *Request) (*Response, error)

	// StartUpload performs the upload start request and returns the session
	// announced in the response headers.
	StartUpload(ctx context.Context, req *Request) (*Session, error)
}

// HTTPTransporter implements Transporter over net/http.
type HTTPTransporter struct {
	client  *http.Client
	baseURL *url.URL
	headers map[string]string
	query   url.Values
	logger  logging.Logger
	metrics *Metrics
	tracer  trace.Tracer
	limiter *rate.Limiter
}

type Option func(*HTTPTransporter)

func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransporter) { t.client = c }
}

// WithHeaders sets headers sent with every request. Request headers win on
// conflict.
func WithHeaders(h map[string]string) Option {
	return func(t *HTTPTransporter) {
		for k, v := range h {
			t.headers[k] = v
		}
	}
}

// WithQuery sets query parameters sent with every request.
func WithQuery(q url.Values) Option {
	return func(t *HTTPTransporter) {
		for k, vs := range q {
			t.query[k] = append([]string(nil), vs...)
		}
	}
}

// WithAPIKey sends key as the "key" query parameter.
func WithAPIKey(key string) Option {
	return func(t *HTTPTransporter) {
		if key != "" {
			t.query.Set("key", key)
		}
	}
}

// WithLogger sets the logger; nil keeps the default that discards output.
func WithLogger(l logging.Logger) Option {
	return func(t *HTTPTransporter) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *HTTPTransporter) { t.metrics = m }
}

func WithTracer(tr trace.Tracer) Option {
	return func(t *HTTPTransporter) { t.tracer = tr }
}

// WithRateLimiter makes every request wait for a token from l.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(t *HTTPTransporter) { t.limiter = l }
}

// NewHTTPTransporter creates a transporter resolving relative request URIs
// against baseURL.
func NewHTTPTransporter(baseURL string, opts ...Option) (*HTTPTransporter, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	if u.Path == "" || u.Path[len(u.Path)-1] != '/' {
		u.Path += "/"
	}

	t := &HTTPTransporter{
		client:  &http.Client{},
		baseURL: u,
		headers: map[string]string{},
		query:   url.Values{},
		logger:  logging.Nop(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *HTTPTransporter) Send(ctx context.Context, req *Request) (*Response, error) {
	if req.Kind() == KindUploadStart {
		return nil, fmt.Errorf("%w: %s is answered by StartUpload", ErrUnexpectedKind, req.Kind())
	}
	if req.Kind() == KindUploadTransfer && req.uri == "" {
		return nil, fmt.Errorf("%w: transfer without a session", ErrMissingUploadURL)
	}

	resp, body, err := t.do(ctx, req)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: status %d with non-JSON body", ErrUnserializableResponse, resp.StatusCode)
	}

	if req.Kind() == KindUploadTransfer && resp.StatusCode < http.StatusBadRequest {
		t.metrics.addUploaded(req.size)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Data: body}, nil
}

func (t *HTTPTransporter) StartUpload(ctx context.Context, req *Request) (*Session, error) {
	if req.Kind() != KindUploadStart {
		return nil, fmt.Errorf("%w: %s is answered by Send", ErrUnexpectedKind, req.Kind())
	}

	resp, _, err := t.do(ctx, req)
	if err != nil {
		return nil, err
	}
	// A failed start never yields a session, even with the header present.
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return NewSession(resp.Header)
}

// do sends req and returns the response with its fully read body. Error
// responses are already mapped.
func (t *HTTPTransporter) do(ctx context.Context, req *Request) (*http.Response, []byte, error) {
	target, err := t.resolve(req)
	if err != nil {
		return nil, nil, err
	}
	safeURL := redact(target)

	ctx, span := t.tracer.Start(ctx, "transport."+req.Kind().String(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.full", safeURL),
		))
	defer span.End()

	httpReq, err := t.build(ctx, req, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			terr := &TransportError{Method: req.method, URL: safeURL, Err: err}
			span.RecordError(terr)
			span.SetStatus(codes.Error, terr.Error())
			return nil, nil, terr
		}
	}

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = safeURL
		}
		terr := &TransportError{Method: req.method, URL: safeURL, Err: err}
		t.metrics.observe(req.Kind(), 0, time.Since(start))
		t.logger.Debug(ctx, "request failed", "kind", req.Kind().String(), "method", req.method, "url", safeURL, "error", err)
		span.RecordError(terr)
		span.SetStatus(codes.Error, terr.Error())
		return nil, nil, terr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	t.metrics.observe(req.Kind(), resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	t.logger.Debug(ctx, "request sent",
		"kind", req.Kind().String(),
		"method", req.method,
		"url", safeURL,
		"status", resp.StatusCode,
		"duration", elapsed,
	)

	if err != nil {
		terr := &TransportError{Method: req.method, URL: safeURL, Err: fmt.Errorf("read body: %w", err)}
		span.RecordError(terr)
		span.SetStatus(codes.Error, terr.Error())
		return nil, nil, terr
	}

	if err := checkError(resp.StatusCode, body); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	return resp, body, nil
}

// resolve builds the target URL: default query first, then the request query.
func (t *HTTPTransporter) resolve(req *Request) (*url.URL, error) {
	ref, err := url.Parse(req.uri)
	if err != nil {
		return nil, fmt.Errorf("parse request uri: %w", err)
	}
	u := t.baseURL.ResolveReference(ref)

	q := u.Query()
	for k, vs := range t.query {
		q[k] = append([]string(nil), vs...)
	}
	for k, vs := range req.query {
		q[k] = append([]string(nil), vs...)
	}
	u.RawQuery = q.Encode()

	return u, nil
}

func (t *HTTPTransporter) build(ctx context.Context, req *Request, target *url.URL) (*http.Request, error) {
	var httpReq *http.Request

	switch req.kind {
	case KindPlain, KindUploadStart:
		var body io.Reader
		if req.body != nil {
			b, err := json.Marshal(req.body)
			if err != nil {
				return nil, fmt.Errorf("encode request body: %w", err)
			}
			body = bytes.NewReader(b)
		}

		r, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpReq = r

	case KindUploadTransfer:
		r, err := http.NewRequestWithContext(ctx, req.method, target.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		// The stream belongs to the caller, the client must not close it.
		r.Body = http.NoBody
		if req.stream != nil && req.size > 0 {
			r.Body = io.NopCloser(req.stream)
		}
		r.ContentLength = req.size
		httpReq = r

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedKind, req.kind)
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.headers {
		if http.CanonicalHeaderKey(k) == "Content-Length" {
			continue
		}
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// checkError maps responses with status >= 400. A JSON body without an
// "error" object is left to the caller.
func checkError(status int, body []byte) error {
	if status < http.StatusBadRequest {
		return nil
	}

	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: status %d with non-JSON body", ErrUnserializableResponse, status)
	}

	e := gjson.GetBytes(body, "error")
	if !e.IsObject() {
		return nil
	}

	return &APIError{
		Code:    int(e.Get("code").Int()),
		Message: e.Get("message").String(),
		Status:  e.Get("status").String(),
	}
}

func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
