// Package source opens the bytes that get uploaded.
//
// A location is either a local path or an s3://bucket/key URL. Resolver picks
// the backend by scheme; both report the size before the stream is opened so
// the upload can announce it in the start request.
package source
