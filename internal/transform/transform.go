package transform

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Processor produces the three renditions of a source image: the original
// bytes passed through untouched, a bounded-dimension preview, and a smaller
// bounded-dimension thumbnail.
type Processor interface {

	// Process decodes the source bytes and builds the renditions. The
	// path is used only for format detection by extension; it fails with
	// ErrUnsupportedFormat before any decode if the extension is not a
	// supported raster format.
	Process(path string, src []byte) (*ProcessedImage, error)
}

// NewProcessor creates a new processor with the given rendition config,
// returning a pointer to the concrete implementation. Zero config fields
// fall back to the package defaults.
func NewProcessor(cfg Config) Processor {

	return &processor{
		cfg: cfg.withDefaults(),
	}
}

var _ Processor = (*processor)(nil)

// processor is the concrete implementation of the Processor interface.
type processor struct {
	cfg Config
}

// Process is the concrete implementation of the interface method which
// decodes the source bytes and builds the three renditions.
func (p *processor) Process(path string, src []byte) (*ProcessedImage, error) {

	if !IsSupportedFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %v", path, err)
	}

	// renditions are re-encoded without exif, so bake the orientation
	// into the pixels before resizing
	img = applyOrientation(img, readOrientation(src))

	bounds := img.Bounds()

	preview, err := p.resizedJpeg(img, p.cfg.PreviewBound, p.cfg.PreviewQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to build preview rendition for %s: %v", path, err)
	}

	thumbnail, err := p.resizedJpeg(img, p.cfg.ThumbnailBound, p.cfg.ThumbnailQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to build thumbnail rendition for %s: %v", path, err)
	}

	return &ProcessedImage{
		// original rendition reuses the untouched source bytes: no
		// generation loss, and reruns produce identical objects
		Original:  src,
		Preview:   preview,
		Thumbnail: thumbnail,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Ext:       strings.ToLower(filepath.Ext(path)),
	}, nil
}

// resizedJpeg shrinks the image so neither dimension exceeds bound,
// preserving aspect ratio with Lanczos resampling, then encodes to jpeg at
// the given quality. Sources already within the bound are not upscaled.
func (p *processor) resizedJpeg(img image.Image, bound, quality int) ([]byte, error) {

	b := img.Bounds()
	if b.Dx() > bound || b.Dy() > bound {
		img = imaging.Fit(img, bound, bound, imaging.Lanczos)
	}

	if hasAlphaChannel(img) {
		img = flattenOnWhite(img)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image to jpeg: %v", err)
	}

	return buf.Bytes(), nil
}

// hasAlphaChannel checks if the provided image has an alpha channel
func hasAlphaChannel(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64, *image.Alpha, *image.Alpha16:
		return true
	default:
		return false
	}
}

// flattenOnWhite flattens an image with an alpha channel onto a white
// background, ie, it removes transparency by compositing the image over a
// white canvas.
func flattenOnWhite(src image.Image) image.Image {

	bounds := src.Bounds()

	dst := image.NewRGBA(bounds)

	// fill white into the destination image
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)

	// composite the source image over the white background
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)

	return dst
}
