package transform

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestImage builds a solid-color source image encoded in the given
// format so the processor has real bytes to decode.
func encodeTestImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()

	img := imaging.New(w, h, color.NRGBA{R: 120, G: 140, B: 160, A: 255})

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))

	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)

	return cfg.Width, cfg.Height
}

func TestIsSupportedFile(t *testing.T) {

	tests := []struct {
		path string
		want bool
	}{
		{"roll1/frame01.jpg", true},
		{"frame01.JPG", true},
		{"frame01.jpeg", true},
		{"scan.png", true},
		{"scan.tiff", false},
		{"notes.txt", false},
		{"noextension", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, IsSupportedFile(tc.path), tc.path)
	}
}

func TestProcessUnsupportedFormat(t *testing.T) {

	p := NewProcessor(Config{})

	_, err := p.Process("document.pdf", []byte("%PDF-1.4"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProcessDecodeFailure(t *testing.T) {

	p := NewProcessor(Config{})

	_, err := p.Process("broken.jpg", []byte("not an image at all"))
	require.Error(t, err)
}

func TestProcessBoundsLargeSource(t *testing.T) {

	src := encodeTestImage(t, 3000, 2000, imaging.JPEG)

	p := NewProcessor(Config{})

	processed, err := p.Process("frame.jpg", src)
	require.NoError(t, err)

	// original rendition is the untouched source bytes
	assert.Equal(t, src, processed.Original)
	assert.Equal(t, 3000, processed.Width)
	assert.Equal(t, 2000, processed.Height)
	assert.Equal(t, ".jpg", processed.Ext)

	pw, ph := decodeDims(t, processed.Preview)
	assert.LessOrEqual(t, pw, PreviewBound)
	assert.LessOrEqual(t, ph, PreviewBound)
	assert.InDelta(t, 3000.0/2000.0, float64(pw)/float64(ph), 0.01, "preview aspect ratio")

	tw, th := decodeDims(t, processed.Thumbnail)
	assert.LessOrEqual(t, tw, ThumbnailBound)
	assert.LessOrEqual(t, th, ThumbnailBound)
	assert.InDelta(t, 3000.0/2000.0, float64(tw)/float64(th), 0.01, "thumbnail aspect ratio")

	// longer side of each rendition lands on its bound
	assert.Equal(t, PreviewBound, int(math.Max(float64(pw), float64(ph))))
	assert.Equal(t, ThumbnailBound, int(math.Max(float64(tw), float64(th))))
}

func TestProcessNoUpscale(t *testing.T) {

	// source already smaller than the preview bound: preview keeps the
	// source pixel dimensions
	src := encodeTestImage(t, 640, 480, imaging.JPEG)

	p := NewProcessor(Config{})

	processed, err := p.Process("small.jpg", src)
	require.NoError(t, err)

	pw, ph := decodeDims(t, processed.Preview)
	assert.Equal(t, 640, pw)
	assert.Equal(t, 480, ph)

	// thumbnail bound still applies
	tw, th := decodeDims(t, processed.Thumbnail)
	assert.Equal(t, ThumbnailBound, tw)
	assert.Equal(t, 300, th)
}

func TestProcessPngRenditionsAreJpeg(t *testing.T) {

	src := encodeTestImage(t, 800, 600, imaging.PNG)

	p := NewProcessor(Config{})

	processed, err := p.Process("scan.png", src)
	require.NoError(t, err)

	assert.Equal(t, ".png", processed.Ext)
	assert.Equal(t, src, processed.Original)

	// previews and thumbnails are always jpeg regardless of source format
	_, format, err := image.DecodeConfig(bytes.NewReader(processed.Preview))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	_, format, err = image.DecodeConfig(bytes.NewReader(processed.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestProcessCustomBounds(t *testing.T) {

	src := encodeTestImage(t, 1000, 500, imaging.JPEG)

	p := NewProcessor(Config{PreviewBound: 100, ThumbnailBound: 50})

	processed, err := p.Process("frame.jpg", src)
	require.NoError(t, err)

	pw, ph := decodeDims(t, processed.Preview)
	assert.Equal(t, 100, pw)
	assert.Equal(t, 50, ph)

	tw, th := decodeDims(t, processed.Thumbnail)
	assert.Equal(t, 50, tw)
	assert.Equal(t, 25, th)
}
