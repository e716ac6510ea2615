package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Local reads files from the local filesystem.
type Local struct{}

func (Local) Stat(_ context.Context, location string) (int64, error) {
	fi, err := os.Stat(localPath(location))
	if err != nil {
		return 0, err
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("%s is a directory", location)
	}
	return fi.Size(), nil
}

func (Local) Open(_ context.Context, location string) (io.ReadCloser, error) {
	return os.Open(localPath(location))
}

func localPath(location string) string {
	return strings.TrimPrefix(location, "file://")
}
