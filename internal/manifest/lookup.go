package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/pellicle-photo/pellicle/internal/store"
)

// Fetch retrieves and parses a previously published manifest for the given
// album id. A missing manifest is not an error: it returns (nil, nil) so the
// caller treats the album as fresh. A manifest that exists but cannot be
// parsed returns an error wrapping ErrCorrupt.
func Fetch(ctx context.Context, objStore store.ObjectStorage, albumID string) (*AlbumManifest, error) {

	if albumID == "" {
		return nil, fmt.Errorf("album id is empty")
	}

	data, err := objStore.GetObject(ctx, Key(albumID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch manifest for album %s: %w", albumID, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest for album %s: %w", albumID, err)
	}

	return m, nil
}
