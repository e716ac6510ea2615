package transport

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploadStartRequest(t *testing.T) {
	r := NewUploadStartRequest(UploadMeta{DisplayName: "report.pdf", MimeType: "application/pdf", SizeBytes: 5737046})

	assert.Equal(t, KindUploadStart, r.Kind())
	assert.Equal(t, http.MethodPost, r.Method())
	assert.Equal(t, "upload/v1beta/files", r.URI())
	assert.Equal(t, map[string]string{
		"X-Goog-Upload-Protocol":              "resumable",
		"X-Goog-Upload-Command":               "start",
		"X-Goog-Upload-Header-Content-Length": "5737046",
		"X-Goog-Upload-Header-Content-Type":   "application/pdf",
		"Content-Type":                        "application/json",
	}, r.Headers())
	assert.Equal(t, url.Values{"uploadType": {"multipart"}}, r.Query())
	assert.Nil(t, r.Stream())

	b, ok := r.Body().(startBody)
	require.True(t, ok)
	assert.Equal(t, "report.pdf", b.File.DisplayName)
}

func TestNewUploadTransferRequest(t *testing.T) {
	s := &Session{
		UploadURL: "https://upload.example/session?token=abc",
		Endpoint:  "https://upload.example/session",
		Query:     url.Values{"token": {"abc"}},
	}
	stream := strings.NewReader("hello")

	r := NewUploadTransferRequest(UploadMeta{MimeType: "text/plain", SizeBytes: 5}, s, stream)

	assert.Equal(t, KindUploadTransfer, r.Kind())
	assert.Equal(t, "https://upload.example/session", r.URI())
	assert.Equal(t, map[string]string{
		"Content-Length":        "5",
		"Content-Type":          "text/plain",
		"X-Goog-Upload-Offset":  "0",
		"X-Goog-Upload-Command": "upload, finalize",
	}, r.Headers())
	assert.Equal(t, url.Values{"token": {"abc"}}, r.Query())
	assert.Same(t, stream, r.Stream())
	assert.Nil(t, r.Body())
}

func TestRequest_AccessorsReturnCopies(t *testing.T) {
	q := url.Values{"pageSize": {"10"}}
	r := NewRequest(http.MethodGet, "v1beta/files", q, nil)

	q.Set("pageSize", "99")
	h := r.Headers()
	h["Content-Type"] = "text/plain"
	rq := r.Query()
	rq.Set("pageSize", "1")

	assert.Equal(t, "10", r.Query().Get("pageSize"))
	assert.Equal(t, "application/json", r.Headers()["Content-Type"])
	assert.Equal(t, KindPlain, r.Kind())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "plain", KindPlain.String())
	assert.Equal(t, "upload_start", KindUploadStart.String())
	assert.Equal(t, "upload_transfer", KindUploadTransfer.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestNewSession(t *testing.T) {
	t.Run("parses url and query", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderUploadURL, "https://upload.example/session?token=abc&upload_id=x1")

		s, err := NewSession(h)
		require.NoError(t, err)
		assert.Equal(t, "https://upload.example/session?token=abc&upload_id=x1", s.UploadURL)
		assert.Equal(t, "https://upload.example/session", s.Endpoint)
		assert.Equal(t, url.Values{"token": {"abc"}, "upload_id": {"x1"}}, s.Query)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := NewSession(http.Header{})
		require.ErrorIs(t, err, ErrMissingUploadURL)
	})

	t.Run("relative url", func(t *testing.T) {
		h := http.Header{}
		h.Set(HeaderUploadURL, "/session?token=abc")
		_, err := NewSession(h)
		require.ErrorIs(t, err, ErrInvalidUploadURL)
	})
}

func TestResponse_Decode(t *testing.T) {
	r := &Response{Data: []byte(`{"a":1}`)}
	var v struct{ A int }
	require.NoError(t, r.Decode(&v))
	assert.Equal(t, 1, v.A)

	r = &Response{Data: []byte(`{"a":"x"}`)}
	require.ErrorContains(t, r.Decode(&v), "decode response")
}
