package registry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gemini-go/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	r, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	clock := time.Date(2024, 10, 13, 16, 0, 0, 0, time.UTC)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return r
}

func newUpload(id, location string) *Upload {
	return &Upload{ID: id, Location: location, DisplayName: "doc"}
}

var accepted = &files.UploadedFile{
	Name:           "files/946lb0s2ns5h",
	MimeType:       "application/pdf",
	SizeBytes:      "5737046",
	URI:            "https://generativelanguage.googleapis.com/v1beta/files/946lb0s2ns5h",
	State:          files.StateActive,
	SHA256Hash:     "MjZm",
	ExpirationTime: "2024-10-15T16:08:25.990944495Z",
}

func TestCreateAndMarkUploaded(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	u := newUpload("u1", "/tmp/145784_v11.pdf")
	require.NoError(t, r.Create(ctx, u))
	assert.Equal(t, StatusPending, u.Status)

	require.NoError(t, r.MarkUploaded(ctx, "u1", accepted))

	got, err := r.GetByName(ctx, "files/946lb0s2ns5h")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, StatusUploaded, got.Status)
	assert.Equal(t, "/tmp/145784_v11.pdf", got.Location)
	assert.EqualValues(t, 5737046, got.SizeBytes)
	assert.Equal(t, "application/pdf", got.MimeType)
	assert.Equal(t, "ACTIVE", got.State)
	assert.Equal(t, accepted.URI, got.URI)
	assert.Equal(t, accepted.ExpirationTime, got.ExpirationTime)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	events, err := r.Events(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, StatusPending, events[0].Status)
	assert.Equal(t, StatusUploaded, events[1].Status)
	assert.Equal(t, "files/946lb0s2ns5h", events[1].Detail)
}

func TestCreate_DuplicateIDRollsBack(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, newUpload("u1", "/a")))
	require.Error(t, r.Create(ctx, newUpload("u1", "/b")))

	events, err := r.Events(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, events, 1, "failed insert must not leave an event behind")
}

func TestMarkFailed(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, newUpload("u1", "/a")))
	require.NoError(t, r.MarkFailed(ctx, "u1", errors.New("api error 403 PERMISSION_DENIED: denied")))

	list, err := r.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusFailed, list[0].Status)
	assert.Contains(t, list[0].Error, "PERMISSION_DENIED")
}

func TestMark_UnknownID(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.ErrorIs(t, r.MarkUploaded(ctx, "missing", accepted), ErrNotFound)
	require.ErrorIs(t, r.MarkFailed(ctx, "missing", nil), ErrNotFound)
}

func TestMarkDeletedAndList(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, newUpload("u1", "/a")))
	require.NoError(t, r.MarkUploaded(ctx, "u1", accepted))
	require.NoError(t, r.Create(ctx, newUpload("u2", "/b")))

	require.NoError(t, r.MarkDeleted(ctx, accepted.Name))

	list, err := r.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "u2", list[0].ID)

	all, err := r.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "u2", all[0].ID, "newest first")
	assert.Equal(t, StatusDeleted, all[1].Status)

	require.ErrorIs(t, r.MarkDeleted(ctx, accepted.Name), ErrNotFound, "already deleted")
}

func TestGetByName_NotFound(t *testing.T) {
	r := setupRepo(t)
	_, err := r.GetByName(context.Background(), "files/nope")
	require.ErrorIs(t, err, ErrNotFound)
}
