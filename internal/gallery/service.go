package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/pellicle-photo/pellicle/internal/manifest"
	"github.com/pellicle-photo/pellicle/internal/store"
	"github.com/pellicle-photo/pellicle/internal/util"
)

// ErrAlbumNotFound signals that no readable album exists for the requested
// id: the manifest object is either absent or unparsable.
var ErrAlbumNotFound = errors.New("album not found")

// Service is the read side of the gallery: it resolves album manifests and
// image bytes for the web layer.
type Service interface {

	// GetManifest fetches the album's manifest. With presign set, the
	// store-relative rendition paths are supplemented with time-limited
	// signed URLs in the transient URL fields.
	GetManifest(ctx context.Context, albumID string, presign bool) (*manifest.AlbumManifest, error)

	// GetImage fetches one rendition's bytes by its store-relative path
	// within the album, returning the bytes and a content type derived
	// from the path's extension.
	GetImage(ctx context.Context, albumID, relPath string) ([]byte, string, error)
}

// NewService creates a new read-side gallery service, returning a pointer to
// the concrete implementation. presignTTL bounds the lifetime of any signed
// url handed out.
func NewService(objStore store.ObjectStorage, presignTTL time.Duration) Service {

	return &service{
		objStore:   objStore,
		presignTTL: presignTTL,

		logger: slog.Default().
			With(slog.String(util.PackageKey, util.PackageGallery)).
			With(slog.String(util.ComponentKey, util.ComponentWebService)),
	}
}

var _ Service = (*service)(nil)

// service is the concrete implementation of the Service interface.
type service struct {
	objStore   store.ObjectStorage
	presignTTL time.Duration

	logger *slog.Logger
}

// GetManifest is the concrete implementation of the interface method which
// fetches the album's manifest.
func (s *service) GetManifest(ctx context.Context, albumID string, presign bool) (*manifest.AlbumManifest, error) {

	m, err := manifest.Fetch(ctx, s.objStore, albumID)
	if err != nil {
		// readers see a corrupt manifest the same as a missing one
		if errors.Is(err, manifest.ErrCorrupt) {
			s.logger.Error(fmt.Sprintf("manifest for album %s is unreadable: %v", albumID, err))
			return nil, fmt.Errorf("album %s: %w", albumID, ErrAlbumNotFound)
		}
		return nil, err
	}

	if m == nil {
		return nil, fmt.Errorf("album %s: %w", albumID, ErrAlbumNotFound)
	}

	if presign {
		if err := s.presignImages(ctx, m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// presignImages attaches time-limited signed urls to every image entry. The
// urls live only in the response; the persisted manifest never carries them.
func (s *service) presignImages(ctx context.Context, m *manifest.AlbumManifest) error {

	for i := range m.Images {
		img := &m.Images[i]

		thumb, err := s.objStore.PresignGet(ctx, path.Join(m.Id, img.ThumbnailPath), s.presignTTL)
		if err != nil {
			return fmt.Errorf("failed to presign thumbnail for image %s: %w", img.Id, err)
		}

		preview, err := s.objStore.PresignGet(ctx, path.Join(m.Id, img.PreviewPath), s.presignTTL)
		if err != nil {
			return fmt.Errorf("failed to presign preview for image %s: %w", img.Id, err)
		}

		original, err := s.objStore.PresignGet(ctx, path.Join(m.Id, img.OriginalPath), s.presignTTL)
		if err != nil {
			return fmt.Errorf("failed to presign original for image %s: %w", img.Id, err)
		}

		img.ThumbnailUrl = thumb
		img.PreviewUrl = preview
		img.OriginalUrl = original
	}

	return nil
}

// GetImage is the concrete implementation of the interface method which
// fetches one rendition's bytes by its store-relative path within the album.
func (s *service) GetImage(ctx context.Context, albumID, relPath string) ([]byte, string, error) {

	relPath = strings.TrimPrefix(relPath, "/")

	// keep requests inside the album prefix
	if strings.Contains(relPath, "..") || relPath == "" {
		return nil, "", fmt.Errorf("invalid image path %s: %w", relPath, store.ErrNotFound)
	}

	data, err := s.objStore.GetObject(ctx, path.Join(albumID, relPath))
	if err != nil {
		return nil, "", err
	}

	return data, contentTypeForPath(relPath), nil
}

// contentTypeForPath maps a rendition path to its content type by extension.
func contentTypeForPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
