package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorrupt is returned when a manifest object exists but cannot be parsed.
// This is fatal for an upload run: the run must not fall back to a fresh
// upload over a manifest it cannot read.
var ErrCorrupt = errors.New("album manifest is corrupt")

// Key is the bucket-relative key of an album's manifest object.
func Key(albumID string) string {
	return fmt.Sprintf("%s/manifest.json", albumID)
}

// AlbumManifest is the single serialized record describing an album:
// its identity, name, and image entries. It is the only object whose write
// makes a run's results visible to readers.
type AlbumManifest struct {
	Id        string      `json:"id"`
	Name      string      `json:"name"`
	CreatedAt string      `json:"created_at"`
	Images    []ImageInfo `json:"images"`
}

// ImageInfo describes one image in an album: its upload-time id, source
// metadata, the content hash used as the dedup key, and the store-relative
// keys of its three renditions. The URL fields are transient, attached only
// on read responses, and never persisted in the manifest object.
type ImageInfo struct {
	Id               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	ContentHash      string `json:"content_hash"`
	ThumbnailPath    string `json:"thumbnail_path"`
	PreviewPath      string `json:"preview_path"`
	OriginalPath     string `json:"original_path"`

	ThumbnailUrl string `json:"thumbnail_url,omitempty"`
	PreviewUrl   string `json:"preview_url,omitempty"`
	OriginalUrl  string `json:"original_url,omitempty"`
}

// New creates a manifest for a fresh album with the given id and name,
// stamping the creation time.
func New(id, name string) *AlbumManifest {
	return &AlbumManifest{
		Id:        id,
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Images:    []ImageInfo{},
	}
}

// AddImage appends an image entry to the manifest.
func (m *AlbumManifest) AddImage(info ImageInfo) {
	m.Images = append(m.Images, info)
}

// ReuseIndex builds a map from each entry's content hash to its ImageInfo,
// used as the O(1) dedup index during processing. A nil manifest yields an
// empty index.
func (m *AlbumManifest) ReuseIndex() map[string]ImageInfo {

	if m == nil {
		return map[string]ImageInfo{}
	}

	index := make(map[string]ImageInfo, len(m.Images))
	for _, img := range m.Images {
		index[img.ContentHash] = img
	}

	return index
}

// Serialize renders the manifest to its canonical wire form.
func (m *AlbumManifest) Serialize() ([]byte, error) {

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize album manifest %s: %v", m.Id, err)
	}

	return data, nil
}

// Parse decodes a manifest from its wire form.
func Parse(data []byte) (*AlbumManifest, error) {

	var m AlbumManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return &m, nil
}
