// Package gemini is a client for the Gemini API file service.
//
//	c, err := gemini.New(os.Getenv("GEMINI_API_KEY"))
//	f, err := c.FileManager().UploadFile(ctx, "report.pdf", "Q3 report", "application/pdf")
//
// Uploaded files are referenced from prompts by their URI; see package genaix
// for conversion into google.golang.org/genai parts.
package gemini

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gemini-go/files"
	"github.com/dmitrijs2005/gemini-go/logging"
	"github.com/dmitrijs2005/gemini-go/source"
	"github.com/dmitrijs2005/gemini-go/transport"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

// API is implemented by Client and by geminitest.ClientFake.
type API interface {
	FileManager() files.FileManager
}

type Client struct {
	transporter transport.Transporter
	files       *files.Manager
}

type options struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string
	logger     logging.Logger
	registerer prometheus.Registerer
	tracer     trace.Tracer
	rateLimit  float64
	source     source.Source
}

type Option func(*options)

func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient replaces the HTTP client. WithTimeout still applies to it.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithHeaders(h map[string]string) Option {
	return func(o *options) { o.headers = h }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics registers transport metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithRateLimit caps requests per second; zero disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(o *options) { o.rateLimit = perSecond }
}

// WithSource sets where UploadFile reads from. Local files are the default.
func WithSource(s source.Source) Option {
	return func(o *options) { o.source = s }
}

// New creates a client authenticated by apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	o := options{
		baseURL: DefaultBaseURL,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}
	if o.timeout > 0 {
		c := *hc
		c.Timeout = o.timeout
		hc = &c
	}

	topts := []transport.Option{
		transport.WithHTTPClient(hc),
		transport.WithAPIKey(apiKey),
		transport.WithHeaders(o.headers),
		transport.WithLogger(o.logger),
	}
	if o.registerer != nil {
		topts = append(topts, transport.WithMetrics(transport.NewMetrics(o.registerer)))
	}
	if o.tracer != nil {
		topts = append(topts, transport.WithTracer(o.tracer))
	}
	if o.rateLimit > 0 {
		burst := max(int(o.rateLimit), 1)
		topts = append(topts, transport.WithRateLimiter(rate.NewLimiter(rate.Limit(o.rateLimit), burst)))
	}

	t, err := transport.NewHTTPTransporter(o.baseURL, topts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		transporter: t,
		files:       files.NewManager(t, o.source, o.logger),
	}, nil
}

func (c *Client) FileManager() files.FileManager {
	return c.files
}

// Transporter exposes the underlying transporter for requests this package
// has no helper for.
func (c *Client) Transporter() transport.Transporter {
	return c.transporter
}
