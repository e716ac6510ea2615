package files

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureFile = `{
	"name": "files/946lb0s2ns5h",
	"displayName": "145784_v11.pdf",
	"mimeType": "application/pdf",
	"sizeBytes": "5737046",
	"createTime": "2024-10-13T16:08:26.011225Z",
	"updateTime": "2024-10-13T16:08:26.011225Z",
	"expirationTime": "2024-10-15T16:08:25.990944495Z",
	"sha256Hash": "MjZmZWVkMTYxYzM2NDkwOWY1YWMzN2UzN2JjMTkwNmUzNTg4ZWY4NDYzMzEwNGE5MzU3MjAyNzI0YjEzOGQ4Zg==",
	"uri": "https://generativelanguage.googleapis.com/v1beta/files/946lb0s2ns5h",
	"state": "ACTIVE"
}`

var fixtureUploaded = UploadedFile{
	Name:           "files/946lb0s2ns5h",
	DisplayName:    "145784_v11.pdf",
	MimeType:       "application/pdf",
	SizeBytes:      "5737046",
	CreateTime:     "2024-10-13T16:08:26.011225Z",
	UpdateTime:     "2024-10-13T16:08:26.011225Z",
	ExpirationTime: "2024-10-15T16:08:25.990944495Z",
	SHA256Hash:     "MjZmZWVkMTYxYzM2NDkwOWY1YWMzN2UzN2JjMTkwNmUzNTg4ZWY4NDYzMzEwNGE5MzU3MjAyNzI0YjEzOGQ4Zg==",
	URI:            "https://generativelanguage.googleapis.com/v1beta/files/946lb0s2ns5h",
	State:          StateActive,
}

func TestUploadFileResponse_RoundTrip(t *testing.T) {
	var resp UploadFileResponse
	require.NoError(t, json.Unmarshal([]byte(`{"file":`+fixtureFile+`}`), &resp))

	if diff := cmp.Diff(fixtureUploaded, resp.File); diff != "" {
		t.Fatalf("decoded file mismatch (-want +got):\n%s", diff)
	}

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":`+fixtureFile+`}`, string(b))
}

func TestUploadedFile_OptionalFieldsOmitted(t *testing.T) {
	f := UploadedFile{
		Name:       "files/x",
		MimeType:   "text/plain",
		SizeBytes:  "12",
		CreateTime: "2024-10-13T16:08:26Z",
		UpdateTime: "2024-10-13T16:08:26Z",
		URI:        "https://example/files/x",
		State:      StateProcessing,
	}

	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "displayName")
	assert.NotContains(t, string(b), "expirationTime")
	assert.NotContains(t, string(b), "sha256Hash")
}

func TestFileState(t *testing.T) {
	for _, s := range []string{"PROCESSING", "ACTIVE", "FAILED", "STATE_UNSPECIFIED"} {
		st, err := ParseFileState(s)
		require.NoError(t, err)
		assert.Equal(t, s, st.String())
	}

	_, err := ParseFileState("BOGUS")
	require.ErrorIs(t, err, ErrUnknownFileState)

	_, err = ParseFileState("active")
	require.ErrorIs(t, err, ErrUnknownFileState)
}

func TestFileState_UnknownValueFailsDecode(t *testing.T) {
	body := strings.Replace(fixtureFile, `"ACTIVE"`, `"BOGUS"`, 1)

	var f UploadedFile
	err := json.Unmarshal([]byte(body), &f)
	require.ErrorIs(t, err, ErrUnknownFileState)

	err = json.Unmarshal([]byte(strings.Replace(fixtureFile, `"ACTIVE"`, `3`, 1)), &f)
	require.ErrorIs(t, err, ErrUnknownFileState)
}

func TestFileState_MarshalRejectsUnknown(t *testing.T) {
	_, err := json.Marshal(UploadedFile{State: "BOGUS"})
	require.ErrorIs(t, err, ErrUnknownFileState)
}

func TestFile_DecodesErrorAndVideoMetadata(t *testing.T) {
	body := `{
		"name": "files/v1",
		"mimeType": "video/mp4",
		"sizeBytes": "100",
		"createTime": "2024-10-13T16:08:26Z",
		"updateTime": "2024-10-13T16:08:26Z",
		"uri": "https://example/files/v1",
		"state": "FAILED",
		"error": {"code": 3, "message": "unsupported codec"},
		"videoMetadata": {"videoDuration": "12s"}
	}`

	var f File
	require.NoError(t, json.Unmarshal([]byte(body), &f))

	assert.Equal(t, "files/v1", f.Name)
	assert.Equal(t, StateFailed, f.State)
	require.NotNil(t, f.Error)
	assert.Equal(t, Status{Code: 3, Message: "unsupported codec"}, *f.Error)
	assert.Equal(t, map[string]any{"videoDuration": "12s"}, f.VideoMetadata)
}

func TestUploadedFile_Helpers(t *testing.T) {
	f := fixtureUploaded

	n, err := f.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 5737046, n)

	exp, ok, err := f.ExpiresAt()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 10, 15, 16, 8, 25, 990944495, time.UTC), exp)

	f.ExpirationTime = ""
	_, ok, err = f.ExpiresAt()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, FileData{
		MimeType: "application/pdf",
		FileURI:  "https://generativelanguage.googleapis.com/v1beta/files/946lb0s2ns5h",
	}, fixtureUploaded.FileData())
}

func TestUploadedFile_VerifySHA256(t *testing.T) {
	// base64 of the hex sha256 of "Test content"
	f := UploadedFile{SHA256Hash: "OWQ5NTk1YzVkOTRmYjY1YjgyNGY1NmU5OTk5NTI3ZGJhOTU0MjQ4MTU4MGQ2OWZlYjg5MDU2YWFiYWEwYWE4Nw=="}

	require.NoError(t, f.VerifySHA256(strings.NewReader("Test content")))
	require.ErrorIs(t, f.VerifySHA256(strings.NewReader("other content")), ErrChecksumMismatch)

	require.ErrorIs(t, (&UploadedFile{}).VerifySHA256(strings.NewReader("x")), ErrNoChecksum)
	require.ErrorContains(t, (&UploadedFile{SHA256Hash: "%%%"}).VerifySHA256(strings.NewReader("x")), "decode sha256 hash")
}
