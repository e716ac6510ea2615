package files

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrijs2005/gemini-go/logging"
	"github.com/dmitrijs2005/gemini-go/source"
	"github.com/dmitrijs2005/gemini-go/transport"
	"github.com/google/uuid"
)

type FileManager interface {
	// UploadFile uploads the file at filePath. An empty mimeType is detected
	// from the content.
	UploadFile(ctx context.Context, filePath, displayName, mimeType string) (*UploadedFile, error)
	GetFile(ctx context.Context, name string) (*File, error)
	DeleteFile(ctx context.Context, name string) error
}

type Manager struct {
	transporter transport.Transporter
	source      source.Source
	logger      logging.Logger
}

// NewManager creates a file manager. A nil src reads local files, a nil
// logger discards output.
func NewManager(t transport.Transporter, src source.Source, logger logging.Logger) *Manager {
	if src == nil {
		src = source.NewResolver()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{transporter: t, source: src, logger: logger}
}

func (m *Manager) UploadFile(ctx context.Context, filePath, displayName, mimeType string) (*UploadedFile, error) {

	size, err := m.source.Stat(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, filePath, err)
	}

	stream, err := m.source.Open(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, filePath, err)
	}
	defer stream.Close()

	var body io.Reader = stream
	if mimeType == "" {
		mimeType, body, err = source.DetectMIMEType(stream)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, filePath, err)
		}
	}

	if displayName == "" {
		displayName = path.Base(filePath)
	}

	meta := transport.UploadMeta{DisplayName: displayName, MimeType: mimeType, SizeBytes: size}
	log := m.logger.With("upload_id", uuid.NewString(), "display_name", displayName)
	log.Info(ctx, "upload started", "size", size, "mime_type", mimeType)

	session, err := m.transporter.StartUpload(ctx, transport.NewUploadStartRequest(meta))
	if err != nil {
		log.Warn(ctx, "upload start failed", "error", err)
		return nil, fmt.Errorf("start upload: %w", err)
	}

	resp, err := m.transporter.Send(ctx, transport.NewUploadTransferRequest(meta, session, body))
	if err != nil {
		log.Warn(ctx, "upload transfer failed", "error", err)
		return nil, fmt.Errorf("transfer upload: %w", err)
	}

	var out UploadFileResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if err := out.File.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrUnserializableResponse, err)
	}

	log.Info(ctx, "upload finished", "name", out.File.Name, "state", out.File.State.String())

	return &out.File, nil
}

func (m *Manager) GetFile(ctx context.Context, name string) (*File, error) {

	resp, err := m.transporter.Send(ctx, transport.NewRequest(http.MethodGet, resourcePath(name), nil, nil))
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	var f File
	if err := decode(resp, &f); err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrUnserializableResponse, err)
	}

	return &f, nil
}

func (m *Manager) DeleteFile(ctx context.Context, name string) error {

	resp, err := m.transporter.Send(ctx, transport.NewRequest(http.MethodDelete, resourcePath(name), nil, nil))
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("delete file: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	m.logger.Info(ctx, "file deleted", "name", name)
	return nil
}

// decode rejects error statuses that carried no error object and maps body
// decoding failures to ErrUnserializableResponse.
func decode(resp *transport.Response, v any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", transport.ErrUnserializableResponse, err)
	}
	return nil
}

// resourcePath accepts "files/abc" or "abc".
func resourcePath(name string) string {
	if !strings.HasPrefix(name, "files/") {
		name = "files/" + name
	}
	return "v1beta/" + name
}
