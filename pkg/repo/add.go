package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Add stages each path. A path already staged whose working file still
// hashes to the staged blob is left alone, so adding twice is a no-op.
func (r *Repo) Add(paths ...string) error {
	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("add: %w: %w", ErrIndexParsing, err)
	}

	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}
		if idx.TracksFile(rel) && !idx.HasDifferentHash(rel) {
			r.Logger.Debug("add: unchanged", zap.String("path", rel))
			continue
		}
		if err := idx.AddOrUpdate(rel); err != nil {
			return fmt.Errorf("add: %w: %w", ErrIO, err)
		}
	}
	return nil
}

// repoRelPath converts a path (absolute, or relative to CWD) into a path
// relative to the repository root. A relative path that does not resolve
// inside the repository is assumed to already be repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
		}
		if isOutside(rel) {
			return "", fmt.Errorf("%q is outside repository %q", p, r.RootDir)
		}
		return filepath.ToSlash(rel), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	rel, err := filepath.Rel(r.RootDir, filepath.Join(cwd, p))
	if err != nil || isOutside(rel) {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	return filepath.ToSlash(rel), nil
}

func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
