package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pellicle-photo/pellicle/internal/store"
)

func TestSerializeParseRoundTrip(t *testing.T) {

	m := New("a1b2c3d4e5f60718", "summer rolls")
	m.AddImage(ImageInfo{
		Id:               "11111111-1111-1111-1111-111111111111",
		OriginalFilename: "a.jpg",
		Width:            6000,
		Height:           4000,
		ContentHash:      "deadbeef",
		ThumbnailPath:    "thumbnails/11111111-1111-1111-1111-111111111111.jpg",
		PreviewPath:      "previews/11111111-1111-1111-1111-111111111111.jpg",
		OriginalPath:     "originals/11111111-1111-1111-1111-111111111111.jpg",
	})

	data, err := m.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, m, parsed)
}

func TestSerializeOmitsTransientUrls(t *testing.T) {

	m := New("a1b2c3d4e5f60718", "rolls")
	m.AddImage(ImageInfo{
		Id:          "id-1",
		ContentHash: "cafe",
	})

	data, err := m.Serialize()
	require.NoError(t, err)

	assert.NotContains(t, string(data), "thumbnail_url")
	assert.NotContains(t, string(data), "preview_url")
	assert.NotContains(t, string(data), "original_url")
	assert.Contains(t, string(data), "content_hash")
}

func TestParseCorrupt(t *testing.T) {

	_, err := Parse([]byte("{not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReuseIndex(t *testing.T) {

	var nilManifest *AlbumManifest
	assert.Empty(t, nilManifest.ReuseIndex())

	m := New("id", "name")
	m.AddImage(ImageInfo{Id: "one", ContentHash: "h1"})
	m.AddImage(ImageInfo{Id: "two", ContentHash: "h2"})

	index := m.ReuseIndex()
	require.Len(t, index, 2)
	assert.Equal(t, "one", index["h1"].Id)
	assert.Equal(t, "two", index["h2"].Id)
}

func TestFetch(t *testing.T) {

	ctx := context.Background()
	mem := store.NewMemory()

	// absent manifest -> fresh album, no error
	m, err := Fetch(ctx, mem, "a1b2c3d4e5f60718")
	require.NoError(t, err)
	assert.Nil(t, m)

	// published manifest round-trips through the store
	want := New("a1b2c3d4e5f60718", "rolls")
	want.AddImage(ImageInfo{Id: "one", ContentHash: "h1"})
	data, err := want.Serialize()
	require.NoError(t, err)
	require.NoError(t, mem.PutObject(ctx, Key(want.Id), data, "application/json"))

	m, err = Fetch(ctx, mem, want.Id)
	require.NoError(t, err)
	assert.Equal(t, want, m)

	// unparsable manifest is fatal, not treated as fresh
	require.NoError(t, mem.PutObject(ctx, Key("bad"), []byte("{corrupt"), "application/json"))
	_, err = Fetch(ctx, mem, "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrupt)
}
