package files

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// UploadedFile is the metadata the API returns for a stored file.
// SizeBytes stays a string as sent on the wire.
type UploadedFile struct {
	Name           string    `json:"name"`
	DisplayName    string    `json:"displayName,omitempty"`
	MimeType       string    `json:"mimeType"`
	SizeBytes      string    `json:"sizeBytes"`
	CreateTime     string    `json:"createTime"`
	UpdateTime     string    `json:"updateTime"`
	ExpirationTime string    `json:"expirationTime,omitempty"`
	SHA256Hash     string    `json:"sha256Hash,omitempty"`
	URI            string    `json:"uri"`
	State          FileState `json:"state"`
}

// UploadFileResponse is the body of a finished upload.
type UploadFileResponse struct {
	File UploadedFile `json:"file"`
}

// Status is the error attached to a file whose processing failed.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// File is the full resource returned by GetFile.
type File struct {
	UploadedFile
	Error         *Status        `json:"error,omitempty"`
	VideoMetadata map[string]any `json:"videoMetadata,omitempty"`
}

// FileData references an uploaded file from a content part.
type FileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri"`
}

func (f *UploadedFile) FileData() FileData {
	return FileData{MimeType: f.MimeType, FileURI: f.URI}
}

// Size parses SizeBytes.
func (f *UploadedFile) Size() (int64, error) {
	return strconv.ParseInt(f.SizeBytes, 10, 64)
}

// ExpiresAt returns the expiration time and false when the file does not
// expire.
func (f *UploadedFile) ExpiresAt() (time.Time, bool, error) {
	if f.ExpirationTime == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, f.ExpirationTime)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// VerifySHA256 hashes r and compares it with SHA256Hash, which the API sends
// as base64 of the hex digest.
func (f *UploadedFile) VerifySHA256(r io.Reader) error {
	if f.SHA256Hash == "" {
		return ErrNoChecksum
	}

	want, err := base64.StdEncoding.DecodeString(f.SHA256Hash)
	if err != nil {
		return fmt.Errorf("decode sha256 hash: %w", err)
	}

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return fmt.Errorf("hash content: %w", err)
	}
	got := hex.EncodeToString(h.Sum(nil))

	if !strings.EqualFold(got, string(want)) {
		return fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got, want)
	}
	return nil
}

func (f *UploadedFile) validate() error {
	if f.State == "" {
		return fmt.Errorf("%w: state is missing", ErrUnknownFileState)
	}
	return nil
}
