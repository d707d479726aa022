// Package index implements the staging area: a flat map from repository
// relative paths to blob hashes, persisted as "path hash" lines.
package index

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

var (
	// ErrMalformed is returned when the index file has an odd number of
	// tokens.
	ErrMalformed = errors.New("malformed index")
	// ErrInvalidPath is returned for paths the line format cannot encode.
	ErrInvalidPath = errors.New("invalid index path")
)

// Index is the staging area for the next commit.
type Index struct {
	file    string
	workDir string
	store   *object.Store
	logger  *zap.Logger
	entries map[string]object.Hash
}

// Load reads the index backed by file, creating an empty backing file when
// none exists. workDir is the working tree the staged paths are relative to.
func Load(file string, store *object.Store, workDir string, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	idx := &Index{
		file:    file,
		workDir: workDir,
		store:   store,
		logger:  logger,
		entries: make(map[string]object.Hash),
	}

	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load index: %w", err)
		}
		if err := os.WriteFile(file, nil, 0o644); err != nil {
			return nil, fmt.Errorf("load index: create: %w", err)
		}
		return idx, nil
	}

	fields := strings.Fields(string(data))
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("load index: %w: %d tokens", ErrMalformed, len(fields))
	}
	for i := 0; i < len(fields); i += 2 {
		idx.entries[fields[i]] = object.Hash(fields[i+1])
	}
	return idx, nil
}

// Normalize converts p to the slash-separated, cleaned form used as an index
// key.
func Normalize(p string) (string, error) {
	clean := path.Clean(filepath.ToSlash(p))
	if clean == "." || clean == "" || strings.HasPrefix(clean, "../") || clean == ".." || path.IsAbs(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if strings.IndexFunc(clean, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrInvalidPath, p)
	}
	return clean, nil
}

// TracksFile reports whether p is staged.
func (idx *Index) TracksFile(p string) bool {
	key, err := Normalize(p)
	if err != nil {
		return false
	}
	_, ok := idx.entries[key]
	return ok
}

// Hash returns the staged hash for p.
func (idx *Index) Hash(p string) (object.Hash, bool) {
	key, err := Normalize(p)
	if err != nil {
		return "", false
	}
	h, ok := idx.entries[key]
	return h, ok
}

// HasDifferentHash rehashes the working file without writing it and reports
// whether it differs from the staged hash. An unreadable file is treated as
// unchanged.
func (idx *Index) HasDifferentHash(p string) bool {
	key, err := Normalize(p)
	if err != nil {
		return false
	}
	h, _, err := object.HashFile(filepath.Join(idx.workDir, filepath.FromSlash(key)))
	if err != nil {
		idx.logger.Debug("index rehash skipped", zap.String("path", key), zap.Error(err))
		return false
	}
	return idx.entries[key] != h
}

// AddOrUpdate hashes the working file, stores it as a blob, records it and
// rewrites the index file.
func (idx *Index) AddOrUpdate(p string) error {
	key, err := Normalize(p)
	if err != nil {
		return fmt.Errorf("index add: %w", err)
	}
	_, content, err := object.HashFile(filepath.Join(idx.workDir, filepath.FromSlash(key)))
	if err != nil {
		return fmt.Errorf("index add %s: %w", key, err)
	}
	h, err := idx.store.WriteBlob(content)
	if err != nil {
		return fmt.Errorf("index add %s: %w", key, err)
	}
	idx.entries[key] = h
	if err := idx.flush(); err != nil {
		return fmt.Errorf("index add %s: %w", key, err)
	}
	idx.logger.Debug("staged", zap.String("path", key), zap.String("hash", string(h)))
	return nil
}

// Remove unstages p. Removing an untracked path is a no-op.
func (idx *Index) Remove(p string) error {
	key, err := Normalize(p)
	if err != nil {
		return fmt.Errorf("index remove: %w", err)
	}
	if _, ok := idx.entries[key]; !ok {
		return nil
	}
	delete(idx.entries, key)
	if err := idx.flush(); err != nil {
		return fmt.Errorf("index remove %s: %w", key, err)
	}
	return nil
}

// Entries returns a copy of the staged path → hash map.
func (idx *Index) Entries() map[string]object.Hash {
	out := make(map[string]object.Hash, len(idx.entries))
	for k, v := range idx.entries {
		out[k] = v
	}
	return out
}

// Paths returns the staged paths in sorted order.
func (idx *Index) Paths() []string {
	out := make([]string, 0, len(idx.entries))
	for k := range idx.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of staged paths.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Delete removes the backing file. A missing file is not an error.
func (idx *Index) Delete() error {
	if err := os.Remove(idx.file); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

// flush atomically rewrites the whole index file.
func (idx *Index) flush() error {
	var b strings.Builder
	for _, p := range idx.Paths() {
		b.WriteString(p)
		b.WriteByte(' ')
		b.WriteString(string(idx.entries[p]))
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(idx.file), ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}
	if err := os.Rename(tmpName, idx.file); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}
