package files

import (
	"errors"

	"github.com/dmitrijs2005/gemini-go/transport"
)

var (
	ErrFileAccess       = errors.New("file cannot be read")
	ErrUnknownFileState = errors.New("unknown file state")
	ErrUnexpectedStatus = transport.ErrUnexpectedStatus
	ErrNoChecksum       = errors.New("file has no sha256 hash")
	ErrChecksumMismatch = errors.New("sha256 mismatch")
)
