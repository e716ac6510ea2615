package files

import (
	"encoding/json"
	"fmt"
)

// FileState is the processing state of an uploaded file.
type FileState string

const (
	StateProcessing  FileState = "PROCESSING"
	StateActive      FileState = "ACTIVE"
	StateFailed      FileState = "FAILED"
	StateUnspecified FileState = "STATE_UNSPECIFIED"
)

// ParseFileState accepts only the known states.
func ParseFileState(s string) (FileState, error) {
	switch st := FileState(s); st {
	case StateProcessing, StateActive, StateFailed, StateUnspecified:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFileState, s)
	}
}

func (s FileState) String() string {
	return string(s)
}

func (s FileState) MarshalJSON() ([]byte, error) {
	if _, err := ParseFileState(string(s)); err != nil {
		return nil, err
	}
	return json.Marshal(string(s))
}

func (s *FileState) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownFileState, b)
	}

	st, err := ParseFileState(raw)
	if err != nil {
		return err
	}

	*s = st
	return nil
}
