package source

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how many leading bytes are inspected.
const sniffLen = 3072

// DetectMIMEType inspects the head of r and returns its MIME type without
// parameters, together with a reader that yields the full content again.
func DetectMIMEType(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]

	typ, _, _ := strings.Cut(mimetype.Detect(head).String(), ";")

	return typ, io.MultiReader(bytes.NewReader(head), r), nil
}
