package transform

import (
	"errors"
	"path/filepath"
	"strings"
)

// default rendition bounds and jpeg encode qualities
const (
	PreviewBound   int = 2048 // max pixels on the longer side of a preview
	ThumbnailBound int = 400  // max pixels on the longer side of a thumbnail

	PreviewQuality   int = 90
	ThumbnailQuality int = 85
)

// ErrUnsupportedFormat is returned when a file's extension does not identify
// it as a supported raster format. The check happens before any decode is
// attempted.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// supported raster formats by lowercased extension
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// IsSupportedFile reports whether the path's extension identifies a
// supported raster format.
func IsSupportedFile(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ProcessedImage holds the three in-memory rendition encodings of one source
// image plus its pixel dimensions. It is produced by the processor and
// consumed immediately by the upload stage; it is never persisted as its own
// entity.
type ProcessedImage struct {
	Original  []byte
	Preview   []byte
	Thumbnail []byte

	// source pixel dimensions after any exif orientation is applied
	Width  int
	Height int

	// source file extension including the dot, lowercased, eg ".jpg"
	Ext string
}

// Config holds the rendition bounds and encode qualities for a processor.
// Zero values fall back to the package defaults.
type Config struct {
	PreviewBound   int
	ThumbnailBound int

	PreviewQuality   int
	ThumbnailQuality int
}

// withDefaults fills any zero fields with the package defaults.
func (c Config) withDefaults() Config {

	if c.PreviewBound <= 0 {
		c.PreviewBound = PreviewBound
	}
	if c.ThumbnailBound <= 0 {
		c.ThumbnailBound = ThumbnailBound
	}
	if c.PreviewQuality <= 0 {
		c.PreviewQuality = PreviewQuality
	}
	if c.ThumbnailQuality <= 0 {
		c.ThumbnailQuality = ThumbnailQuality
	}

	return c
}
