package repo

import "fmt"

// Reset unstages paths by dropping their index entries. With no paths the
// whole index is deleted. The working tree is not touched.
func (r *Repo) Reset(paths ...string) error {
	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("reset: %w: %w", ErrIndexParsing, err)
	}
	if len(paths) == 0 {
		if err := idx.Delete(); err != nil {
			return fmt.Errorf("reset: %w: %w", ErrIO, err)
		}
		return nil
	}
	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("reset: resolve path %q: %w", p, err)
		}
		if err := idx.Remove(rel); err != nil {
			return fmt.Errorf("reset: %w: %w", ErrIO, err)
		}
	}
	return nil
}
