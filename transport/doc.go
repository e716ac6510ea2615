// Package transport sends requests to the Gemini HTTP API.
//
// # Overview
//
// Every call is described by an immutable Request whose Kind is one of
// KindPlain, KindUploadStart or KindUploadTransfer. HTTPTransporter
// dispatches on that kind:
//
//   - KindPlain: JSON body, default headers and query merged in, JSON response
//     returned as a Response.
//   - KindUploadStart: phase 1 of the resumable upload. The JSON body
//     announces the file; the answer is read from the response headers only
//     and returned as a Session carrying the upload URL.
//   - KindUploadTransfer: phase 2. The raw file stream is sent to the session
//     URL and the finalize JSON is returned as a Response.
//
// # Error Handling
//
// Every response with status >= 400 is checked before anything else:
//
//   - a JSON body with an "error" object becomes *APIError;
//   - a body that is not JSON wraps ErrUnserializableResponse.
//
// Client-level failures (dial, TLS, timeout, cancelled context) are returned
// as *TransportError, which matches ErrTransport with errors.Is. A start
// response without the X-Goog-Upload-URL header yields ErrMissingUploadURL.
// Nothing is retried.
//
// # Concurrency
//
// HTTPTransporter is immutable after construction and safe for concurrent use
// as long as the supplied *http.Client is.
package transport
