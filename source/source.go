package source

import (
	"context"
	"errors"
	"io"
	"strings"
)

var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Source gives the size of a location and a stream over its content.
type Source interface {
	Stat(ctx context.Context, location string) (int64, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// Resolver dispatches to a backend by location scheme. Locations without a
// scheme go to Local.
type Resolver struct {
	Local Source
	S3    Source
}

// NewResolver returns a resolver reading local files only. S3 is set by the
// caller once credentials are known.
func NewResolver() *Resolver {
	return &Resolver{Local: Local{}}
}

func (r *Resolver) Stat(ctx context.Context, location string) (int64, error) {
	s, err := r.pick(location)
	if err != nil {
		return 0, err
	}
	return s.Stat(ctx, location)
}

func (r *Resolver) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	s, err := r.pick(location)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, location)
}

func (r *Resolver) pick(location string) (Source, error) {
	scheme, _, found := strings.Cut(location, "://")
	if !found {
		if r.Local == nil {
			return nil, ErrUnsupportedScheme
		}
		return r.Local, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		if r.Local == nil {
			return nil, ErrUnsupportedScheme
		}
		return r.Local, nil
	case "s3":
		if r.S3 == nil {
			return nil, ErrUnsupportedScheme
		}
		return r.S3, nil
	default:
		return nil, ErrUnsupportedScheme
	}
}
