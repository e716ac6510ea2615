package transport

import (
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
)

// Kind tells the transporter how a request is sent and how its response is read.
type Kind int

const (
	KindPlain Kind = iota
	KindUploadStart
	KindUploadTransfer
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindUploadStart:
		return "upload_start"
	case KindUploadTransfer:
		return "upload_transfer"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Resumable upload protocol headers and values.
const (
	HeaderUploadProtocol      = "X-Goog-Upload-Protocol"
	HeaderUploadCommand       = "X-Goog-Upload-Command"
	HeaderUploadContentLength = "X-Goog-Upload-Header-Content-Length"
	HeaderUploadContentType   = "X-Goog-Upload-Header-Content-Type"
	HeaderUploadOffset        = "X-Goog-Upload-Offset"
	HeaderUploadURL           = "X-Goog-Upload-URL"

	UploadProtocolResumable = "resumable"
	CommandStart            = "start"
	CommandUploadFinalize   = "upload, finalize"

	// UploadEndpoint is resolved against the transporter base URL.
	UploadEndpoint = "upload/v1beta/files"
)

// UploadMeta describes the file being uploaded.
type UploadMeta struct {
	DisplayName string
	MimeType    string
	SizeBytes   int64
}

// Request is one call to the API. It is built by the New* constructors and
// never modified afterwards; accessors return copies.
type Request struct {
	kind    Kind
	method  string
	uri     string
	headers map[string]string
	query   url.Values
	body    any
	stream  io.Reader
	size    int64
}

// NewRequest builds a plain JSON request. uri is resolved against the
// transporter base URL; body may be nil.
func NewRequest(method, uri string, query url.Values, body any) *Request {
	return &Request{
		kind:    KindPlain,
		method:  method,
		uri:     uri,
		headers: map[string]string{"Content-Type": "application/json"},
		query:   cloneValues(query),
		body:    body,
	}
}

type startBody struct {
	File struct {
		DisplayName string `json:"display_name"`
	} `json:"file"`
}

// NewUploadStartRequest builds phase 1 of the resumable upload.
func NewUploadStartRequest(meta UploadMeta) *Request {
	var body startBody
	body.File.DisplayName = meta.DisplayName

	return &Request{
		kind:   KindUploadStart,
		method: http.MethodPost,
		uri:    UploadEndpoint,
		headers: map[string]string{
			HeaderUploadProtocol:      UploadProtocolResumable,
			HeaderUploadCommand:       CommandStart,
			HeaderUploadContentLength: strconv.FormatInt(meta.SizeBytes, 10),
			HeaderUploadContentType:   meta.MimeType,
			"Content-Type":            "application/json",
		},
		query: url.Values{"uploadType": {"multipart"}},
		body:  body,
	}
}

// NewUploadTransferRequest builds phase 2: stream is sent as-is to the
// session endpoint. The caller keeps ownership of stream and closes it once
// the call returns. A nil session gives a request that Send rejects with
// ErrMissingUploadURL.
func NewUploadTransferRequest(meta UploadMeta, session *Session, stream io.Reader) *Request {
	if session == nil {
		session = &Session{}
	}
	return &Request{
		kind:   KindUploadTransfer,
		method: http.MethodPost,
		uri:    session.Endpoint,
		headers: map[string]string{
			"Content-Length":    strconv.FormatInt(meta.SizeBytes, 10),
			"Content-Type":      meta.MimeType,
			HeaderUploadOffset:  "0",
			HeaderUploadCommand: CommandUploadFinalize,
		},
		query:  cloneValues(session.Query),
		stream: stream,
		size:   meta.SizeBytes,
	}
}

// Kind returns the dispatch kind.
func (r *Request) Kind() Kind {
	return r.kind
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) URI() string {
	return r.uri
}

func (r *Request) Headers() map[string]string {
	return maps.Clone(r.headers)
}

func (r *Request) Query() url.Values {
	return cloneValues(r.query)
}

// Body returns the JSON body; nil for transfer requests.
func (r *Request) Body() any {
	return r.body
}

// Stream returns the raw payload of a transfer request.
func (r *Request) Stream() io.Reader {
	return r.stream
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
