package pipeline

import (
	"github.com/pellicle-photo/pellicle/internal/manifest"
	"github.com/pellicle-photo/pellicle/internal/transform"
)

// defaultMaxConcurrentUploads caps simultaneous in-flight uploads so large
// albums cannot exhaust connections or file descriptors.
const defaultMaxConcurrentUploads = 8

// Config holds the tunables of an upload run.
type Config struct {

	// MaxConcurrentUploads bounds the upload fan-out. Zero falls back to
	// the package default.
	MaxConcurrentUploads int
}

// withDefaults fills any zero fields with the package defaults.
func (c Config) withDefaults() Config {

	if c.MaxConcurrentUploads <= 0 {
		c.MaxConcurrentUploads = defaultMaxConcurrentUploads
	}

	return c
}

// processResult is the outcome of the processing stage for one candidate
// file: either a reused entry carried forward from the prior manifest, or a
// freshly transformed image awaiting upload. Exactly one field is set.
type processResult struct {
	reused *manifest.ImageInfo
	fresh  *newImage
}

// newImage carries everything the upload stage needs for one new image: the
// freshly assigned id, source metadata, and the in-memory renditions.
type newImage struct {
	id          string
	filename    string
	contentHash string
	processed   *transform.ProcessedImage
}
