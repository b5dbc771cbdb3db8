package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pellicle-photo/pellicle/internal/transform"
)

// albumIdentityLength is the number of hex characters kept as the album's
// display identity.
const albumIdentityLength = 16

// ContentHash computes the sha256 digest of a file's raw bytes, hex encoded.
// It is the dedup key: an unchanged file hashes identically across runs, so
// collision resistance matters here, not just checksumming.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// AlbumIdentity derives the album's primary key from the set of source file
// paths. The paths are sorted lexicographically and hashed with a separator
// byte, so the same set always yields the same identity regardless of
// traversal order, and any added or removed file yields a different one.
// This binds "this exact file listing" to "this exact album", which is what
// makes runs over an unchanged path set resumable.
func AlbumIdentity(paths []string) string {

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	h := sha256.New()
	for _, p := range sorted {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}

	return hex.EncodeToString(h.Sum(nil))[:albumIdentityLength]
}

// CollectImagePaths expands the user-supplied arguments into the sorted list
// of candidate image files. Each argument must exist: a missing path is
// fatal before any processing starts. File arguments are kept only if their
// extension identifies a supported raster format; directory arguments are
// walked recursively, following symlinked directories, with unsupported
// files silently skipped.
func CollectImagePaths(args []string) ([]string, error) {

	var paths []string
	seen := make(map[string]bool)

	for _, arg := range args {

		info, err := os.Stat(arg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", arg)
			}
			return nil, fmt.Errorf("failed to stat path %s: %v", arg, err)
		}

		if !info.IsDir() {
			if transform.IsSupportedFile(arg) {
				paths = append(paths, arg)
			}
			continue
		}

		if err := collectDir(arg, seen, &paths); err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %v", arg, err)
		}
	}

	sort.Strings(paths)

	return paths, nil
}

// collectDir walks one directory tree, appending supported image files and
// descending into symlinked directories. seen holds resolved directory paths
// so symlink cycles terminate.
func collectDir(dir string, seen map[string]bool, paths *[]string) error {

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if seen[resolved] {
		return nil
	}
	seen[resolved] = true

	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// collected paths keep the spelling the caller used, not the
		// symlink target
		logical := dir
		if rel, err := filepath.Rel(resolved, path); err == nil && rel != "." {
			logical = filepath.Join(dir, rel)
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return err
			}
			if target.IsDir() {
				return collectDir(logical, seen, paths)
			}
		}

		if !d.IsDir() && transform.IsSupportedFile(path) {
			*paths = append(*paths, logical)
		}

		return nil
	})
}
