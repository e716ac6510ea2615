package registry

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gemini-go/files"
)

var ErrNotFound = errors.New("upload not found")

type Repository interface {
	// Create stores a pending upload.
	Create(ctx context.Context, u *Upload) error

	// MarkUploaded records the file returned by the API, including the
	// size and MIME type it reports.
	MarkUploaded(ctx context.Context, id string, f *files.UploadedFile) error

	MarkFailed(ctx context.Context, id string, cause error) error

	// MarkDeleted flags every upload of the remote file name as deleted.
	MarkDeleted(ctx context.Context, name string) error

	GetByName(ctx context.Context, name string) (*Upload, error)

	// List returns uploads newest first; deleted ones only when asked.
	List(ctx context.Context, includeDeleted bool) ([]*Upload, error)

	Events(ctx context.Context, id string) ([]Event, error)
}
