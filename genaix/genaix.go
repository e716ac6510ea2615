// Package genaix converts uploaded files into google.golang.org/genai values
// so they can be referenced from GenerateContent calls made with that SDK.
package genaix

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gemini-go/files"
	"google.golang.org/genai"
)

// Part references f from a content part.
func Part(f *files.UploadedFile) *genai.Part {
	return genai.NewPartFromURI(f.URI, f.MimeType)
}

func State(s files.FileState) genai.FileState {
	switch s {
	case files.StateProcessing:
		return genai.FileStateProcessing
	case files.StateActive:
		return genai.FileStateActive
	case files.StateFailed:
		return genai.FileStateFailed
	default:
		return genai.FileStateUnspecified
	}
}

// File converts f, parsing its size and timestamps.
func File(f *files.UploadedFile) (*genai.File, error) {
	size, err := f.Size()
	if err != nil {
		return nil, fmt.Errorf("parse size: %w", err)
	}

	out := &genai.File{
		Name:        f.Name,
		DisplayName: f.DisplayName,
		MIMEType:    f.MimeType,
		SizeBytes:   genai.Ptr(size),
		Sha256Hash:  f.SHA256Hash,
		URI:         f.URI,
		State:       State(f.State),
	}

	if out.CreateTime, err = parseTime(f.CreateTime); err != nil {
		return nil, fmt.Errorf("parse create time: %w", err)
	}
	if out.UpdateTime, err = parseTime(f.UpdateTime); err != nil {
		return nil, fmt.Errorf("parse update time: %w", err)
	}
	if out.ExpirationTime, err = parseTime(f.ExpirationTime); err != nil {
		return nil, fmt.Errorf("parse expiration time: %w", err)
	}

	return out, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
