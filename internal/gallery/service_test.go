package gallery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pellicle-photo/pellicle/internal/manifest"
	"github.com/pellicle-photo/pellicle/internal/store"
)

// seedAlbum publishes a one-image album into the memory store and returns
// its manifest.
func seedAlbum(t *testing.T, mem *store.Memory) *manifest.AlbumManifest {
	t.Helper()

	ctx := context.Background()

	m := manifest.New("a1b2c3d4e5f60718", "test roll")
	m.AddImage(manifest.ImageInfo{
		Id:               "img-1",
		OriginalFilename: "a.jpg",
		Width:            64,
		Height:           48,
		ContentHash:      "hash-a",
		ThumbnailPath:    "thumbnails/img-1.jpg",
		PreviewPath:      "previews/img-1.jpg",
		OriginalPath:     "originals/img-1.jpg",
	})

	data, err := m.Serialize()
	require.NoError(t, err)
	require.NoError(t, mem.PutObject(ctx, manifest.Key(m.Id), data, "application/json"))

	for _, rel := range []string{"thumbnails/img-1.jpg", "previews/img-1.jpg", "originals/img-1.jpg"} {
		require.NoError(t, mem.PutObject(ctx, m.Id+"/"+rel, []byte("jpeg bytes"), "image/jpeg"))
	}

	return m
}

func TestGetManifest(t *testing.T) {

	ctx := context.Background()
	mem := store.NewMemory()
	want := seedAlbum(t, mem)

	svc := NewService(mem, time.Hour)

	m, err := svc.GetManifest(ctx, want.Id, false)
	require.NoError(t, err)
	assert.Equal(t, want, m)

	// no transient urls without presign
	assert.Empty(t, m.Images[0].ThumbnailUrl)
}

func TestGetManifestNotFound(t *testing.T) {

	svc := NewService(store.NewMemory(), time.Hour)

	_, err := svc.GetManifest(context.Background(), "missing-album", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestGetManifestCorruptReadsAsNotFound(t *testing.T) {

	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.PutObject(ctx, manifest.Key("bad"), []byte("{corrupt"), "application/json"))

	svc := NewService(mem, time.Hour)

	_, err := svc.GetManifest(ctx, "bad", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlbumNotFound)
}

func TestGetManifestPresigned(t *testing.T) {

	ctx := context.Background()
	mem := store.NewMemory()
	want := seedAlbum(t, mem)

	svc := NewService(mem, time.Hour)

	m, err := svc.GetManifest(ctx, want.Id, true)
	require.NoError(t, err)

	img := m.Images[0]
	assert.NotEmpty(t, img.ThumbnailUrl)
	assert.NotEmpty(t, img.PreviewUrl)
	assert.NotEmpty(t, img.OriginalUrl)
	assert.Contains(t, img.ThumbnailUrl, "thumbnails/img-1.jpg")
}

func TestGetImage(t *testing.T) {

	ctx := context.Background()
	mem := store.NewMemory()
	m := seedAlbum(t, mem)

	svc := NewService(mem, time.Hour)

	data, contentType, err := svc.GetImage(ctx, m.Id, "/thumbnails/img-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)
	assert.Equal(t, "image/jpeg", contentType)

	_, _, err = svc.GetImage(ctx, m.Id, "/thumbnails/nope.jpg")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// traversal outside the album prefix is rejected
	_, _, err = svc.GetImage(ctx, m.Id, "/../other-album/manifest.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContentTypeForPath(t *testing.T) {

	tests := []struct {
		path string
		want string
	}{
		{"previews/a.jpg", "image/jpeg"},
		{"previews/a.jpeg", "image/jpeg"},
		{"originals/a.png", "image/png"},
		{"originals/a.webp", "application/octet-stream"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, contentTypeForPath(tc.path), tc.path)
	}
}
