// Package files manages files stored by the Gemini API.
//
// UploadFile runs the resumable upload: a start request announcing size and
// type, then a single transfer request carrying the bytes. The local stream is
// opened before anything is sent, so a missing or unreadable file fails with
// ErrFileAccess without touching the network.
package files
