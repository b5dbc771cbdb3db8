package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pellicle-photo/pellicle/internal/manifest"
	"github.com/pellicle-photo/pellicle/internal/store"
	"github.com/pellicle-photo/pellicle/internal/transform"
	"github.com/pellicle-photo/pellicle/internal/util"
)

// AlbumService publishes and removes content-addressed albums.
type AlbumService interface {

	// Upload publishes the images under the given paths as one album,
	// re-uploading only files whose content is not already persisted in
	// the album's prior manifest. It returns the published manifest.
	Upload(ctx context.Context, args []string, name string) (*manifest.AlbumManifest, error)

	// Delete removes an album and all of its objects. It fails with a
	// not-found error before any store mutation if no manifest exists for
	// the album id.
	Delete(ctx context.Context, albumID string) error
}

// NewAlbumService creates a new album service, returning a pointer to the
// concrete implementation. Human-readable progress is written to out; pass
// nil to discard it.
func NewAlbumService(
	objStore store.ObjectStorage,
	processor transform.Processor,
	cfg Config,
	out io.Writer,
) AlbumService {

	if out == nil {
		out = io.Discard
	}

	return &albumService{
		objStore:  objStore,
		processor: processor,
		cfg:       cfg.withDefaults(),
		out:       out,

		logger: slog.Default().
			With(slog.String(util.PackageKey, util.PackagePipeline)).
			With(slog.String(util.ComponentKey, util.ComponentUploader)),
	}
}

var _ AlbumService = (*albumService)(nil)

// albumService is the concrete implementation of the AlbumService interface.
type albumService struct {
	objStore  store.ObjectStorage
	processor transform.Processor
	cfg       Config
	out       io.Writer

	logger *slog.Logger
}

// Upload is the concrete implementation of the interface method which
// publishes the images under the given paths as one album. The run is
// fail-fast: the first error from any stage aborts the whole run with no
// manifest publish, leaving any already-uploaded renditions orphaned.
func (s *albumService) Upload(ctx context.Context, args []string, name string) (*manifest.AlbumManifest, error) {

	paths, err := CollectImagePaths(args)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no images found in the provided paths")
	}

	// the album's primary key is derived from the path listing, not file
	// contents, so reruns over an unchanged set land on the same album
	albumID := AlbumIdentity(paths)

	fmt.Fprintf(s.out, "Album: %s\n", name)
	fmt.Fprintf(s.out, "Album ID: %s\n", albumID)
	fmt.Fprintf(s.out, "Image set size: %d\n", len(paths))

	existing, err := manifest.Fetch(ctx, s.objStore, albumID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		fmt.Fprintf(s.out, "Found existing album with this image set, checking which images need uploading\n")
	} else {
		fmt.Fprintf(s.out, "New album, all images will be uploaded\n")
	}

	results, err := s.processAll(ctx, paths, existing.ReuseIndex())
	if err != nil {
		return nil, err
	}

	// separate reused entries from images that need uploading
	var (
		reused []manifest.ImageInfo
		fresh  []*newImage
	)
	for _, r := range results {
		if r.reused != nil {
			reused = append(reused, *r.reused)
		} else {
			fresh = append(fresh, r.fresh)
		}
	}

	fmt.Fprintf(s.out, "Images: %d total (%d already uploaded, %d to upload)\n", len(paths), len(reused), len(fresh))

	uploaded, err := s.uploadAll(ctx, albumID, fresh)
	if err != nil {
		return nil, err
	}

	// assemble the manifest: reused entries first, then newly uploaded
	m := manifest.New(albumID, name)
	if existing != nil {
		// creation time is set once and survives resumes
		m.CreatedAt = existing.CreatedAt
	}
	for _, info := range reused {
		m.AddImage(info)
	}
	for _, info := range uploaded {
		m.AddImage(info)
	}

	data, err := m.Serialize()
	if err != nil {
		return nil, err
	}

	// the terminal action: nothing is observable to readers until this
	// write lands, and it unconditionally replaces any prior manifest
	if err := s.objStore.PutObject(ctx, manifest.Key(albumID), data, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to publish manifest for album %s: %w", albumID, err)
	}

	s.logger.Info(fmt.Sprintf("published album %s with %d images (%d new)", albumID, len(m.Images), len(uploaded)))
	fmt.Fprintf(s.out, "Album complete: %d images\n", len(m.Images))

	return m, nil
}

// processAll is the cpu-bound stage: for every candidate file, in parallel
// across a pool sized to hardware concurrency, read and hash the bytes,
// consult the reuse index, and transform only files not already present.
// Completion order is unspecified; results land by input index. A single
// failure aborts the stage after the pool drains and discards all results.
func (s *albumService) processAll(
	ctx context.Context,
	paths []string,
	reuse map[string]manifest.ImageInfo,
) ([]processResult, error) {

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	results := make([]processResult, len(paths))

	for i, path := range paths {
		g.Go(func() error {

			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %v", path, err)
			}

			hash := ContentHash(data)

			// unchanged file: carry its entry forward verbatim,
			// keeping the originally assigned image id. Each prior
			// entry is claimed by at most one file per run, so
			// duplicate-content paths still get distinct ids.
			mu.Lock()
			info, ok := reuse[hash]
			if ok {
				delete(reuse, hash)
			}
			mu.Unlock()

			if ok {
				s.logger.Info(fmt.Sprintf("skipping %s, already uploaded", path))
				results[i] = processResult{reused: &info}
				return nil
			}

			id, err := uuid.NewRandom()
			if err != nil {
				return fmt.Errorf("failed to generate image id for %s: %v", path, err)
			}

			processed, err := s.processor.Process(path, data)
			if err != nil {
				return fmt.Errorf("failed to process image %s: %w", path, err)
			}

			s.logger.Info(fmt.Sprintf("processed %s (%dx%d)", path, processed.Width, processed.Height))

			results[i] = processResult{fresh: &newImage{
				id:          id.String(),
				filename:    filepath.Base(path),
				contentHash: hash,
				processed:   processed,
			}}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// uploadAll is the i/o-bound stage: each new image's three renditions are
// written concurrently, bounded by the configured in-flight limit. A failed
// upload does not cancel its siblings; every started task runs to completion
// and the first error surfaces only after the group drains, so a failed run
// can leave successfully-uploaded objects behind.
func (s *albumService) uploadAll(ctx context.Context, albumID string, fresh []*newImage) ([]manifest.ImageInfo, error) {

	if len(fresh) == 0 {
		return nil, nil
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentUploads)

	infos := make([]manifest.ImageInfo, len(fresh))

	for i, img := range fresh {
		g.Go(func() error {

			info, err := s.uploadImage(ctx, albumID, img)
			if err != nil {
				return err
			}

			s.logger.Info(fmt.Sprintf("uploaded %s as image %s", img.filename, img.id))

			infos[i] = *info

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return infos, nil
}

// uploadImage writes one image's three renditions to the object store under
// the album's key scheme and builds the resulting manifest entry. Manifest
// paths are store-relative; readers prepend the album prefix.
func (s *albumService) uploadImage(ctx context.Context, albumID string, img *newImage) (*manifest.ImageInfo, error) {

	originalPath := fmt.Sprintf("originals/%s%s", img.id, img.processed.Ext)
	previewPath := fmt.Sprintf("previews/%s.jpg", img.id)
	thumbnailPath := fmt.Sprintf("thumbnails/%s.jpg", img.id)

	originalType := mimetype.Detect(img.processed.Original).String()

	if err := s.objStore.PutObject(ctx, fmt.Sprintf("%s/%s", albumID, originalPath), img.processed.Original, originalType); err != nil {
		return nil, fmt.Errorf("failed to upload original rendition of %s: %w", img.filename, err)
	}

	if err := s.objStore.PutObject(ctx, fmt.Sprintf("%s/%s", albumID, previewPath), img.processed.Preview, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to upload preview rendition of %s: %w", img.filename, err)
	}

	if err := s.objStore.PutObject(ctx, fmt.Sprintf("%s/%s", albumID, thumbnailPath), img.processed.Thumbnail, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to upload thumbnail rendition of %s: %w", img.filename, err)
	}

	return &manifest.ImageInfo{
		Id:               img.id,
		OriginalFilename: img.filename,
		Width:            img.processed.Width,
		Height:           img.processed.Height,
		ContentHash:      img.contentHash,
		ThumbnailPath:    thumbnailPath,
		PreviewPath:      previewPath,
		OriginalPath:     originalPath,
	}, nil
}

// Delete is the concrete implementation of the interface method which
// removes an album and all of its objects.
func (s *albumService) Delete(ctx context.Context, albumID string) error {

	if albumID == "" {
		return fmt.Errorf("album id is empty")
	}

	exists, err := s.objStore.ObjectExists(ctx, manifest.Key(albumID))
	if err != nil {
		return fmt.Errorf("failed to check for album %s: %w", albumID, err)
	}

	if !exists {
		return fmt.Errorf("album %s: %w", albumID, store.ErrNotFound)
	}

	if err := s.objStore.DeletePrefix(ctx, albumID+"/"); err != nil {
		return fmt.Errorf("failed to delete album %s: %w", albumID, err)
	}

	s.logger.Info(fmt.Sprintf("deleted album %s", albumID))
	fmt.Fprintf(s.out, "Album deleted: %s\n", albumID)

	return nil
}
