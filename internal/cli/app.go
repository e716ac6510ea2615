package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gemini-go"
	"github.com/dmitrijs2005/gemini-go/internal/buildinfo"
	"github.com/dmitrijs2005/gemini-go/internal/config"
	"github.com/dmitrijs2005/gemini-go/internal/filex"
	"github.com/dmitrijs2005/gemini-go/internal/registry"
	"github.com/dmitrijs2005/gemini-go/logging"
	"github.com/dmitrijs2005/gemini-go/source"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registry repository the commands need.
type Registry interface {
	registry.Repository
	Close() error
}

type App struct {
	cfg     *config.Config
	out     io.Writer
	errOut  io.Writer
	logger  logging.Logger
	metrics *prometheus.Registry
	src     source.Source

	newAPI       func(ctx context.Context) (gemini.API, error)
	openRegistry func(ctx context.Context, path string) (Registry, error)
}

func NewApp(cfg *config.Config, out, errOut io.Writer) *App {
	a := &App{
		cfg:     cfg,
		out:     out,
		errOut:  errOut,
		logger:  logging.Nop(),
		metrics: prometheus.NewRegistry(),
	}
	a.newAPI = a.defaultAPI
	a.openRegistry = func(ctx context.Context, path string) (Registry, error) {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
		return registry.Open(ctx, path)
	}
	return a
}

// fileSource lazily builds the resolver; S3 is added when the SDK configuration
// loads.
func (a *App) fileSource(ctx context.Context) source.Source {
	if a.src != nil {
		return a.src
	}

	r := source.NewResolver()
	s3src, err := source.NewS3FromConfig(ctx, source.S3Config{
		Region:    a.cfg.S3.Region,
		Endpoint:  a.cfg.S3.Endpoint,
		AccessKey: a.cfg.S3.AccessKey,
		SecretKey: a.cfg.S3.SecretKey,
	})
	if err != nil {
		a.logger.Warn(ctx, "s3 source disabled", "error", err)
	} else {
		r.S3 = s3src
	}

	a.src = r
	return a.src
}

func (a *App) defaultAPI(ctx context.Context) (gemini.API, error) {
	c, err := gemini.New(a.cfg.APIKey,
		gemini.WithBaseURL(a.cfg.BaseURL),
		gemini.WithTimeout(a.cfg.Timeout),
		gemini.WithHeaders(map[string]string{"X-Goog-Api-Client": buildinfo.UserAgent()}),
		gemini.WithLogger(a.logger),
		gemini.WithMetrics(a.metrics),
		gemini.WithRateLimit(a.cfg.RateLimit),
		gemini.WithSource(a.fileSource(ctx)),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

func (a *App) writeMetrics() error {
	if a.cfg.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.metrics); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
