package registry

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusUploaded Status = "uploaded"
	StatusFailed   Status = "failed"
	StatusDeleted  Status = "deleted"
)

// Upload is one attempt to upload a location.
type Upload struct {
	ID          string
	Location    string
	DisplayName string
	MimeType    string
	SizeBytes   int64
	Status      Status

	// Set once the API accepted the file.
	Name           string
	URI            string
	State          string
	SHA256Hash     string
	ExpirationTime string

	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Event struct {
	UploadID string
	Status   Status
	Detail   string
	At       time.Time
}
