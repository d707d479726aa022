package repo

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

// FileStatus represents the state of a file in the working tree or index.
type FileStatus int

const (
	StatusClean     FileStatus = iota // file matches between compared areas
	StatusNew                         // staged, not in the HEAD tree
	StatusModified                    // staged, different from the HEAD tree
	StatusDeleted                     // tracked but missing from the working tree
	StatusUntracked                   // in the working tree only
	StatusDirty                       // working copy differs from the staged or committed blob
)

// StatusEntry records the status of a single file.
type StatusEntry struct {
	Path        string     // repo-relative path
	IndexStatus FileStatus // index vs HEAD tree
	WorkStatus  FileStatus // working tree vs index (or HEAD tree when unstaged)
}

// Status compares the working tree, the index and the HEAD tree.
//
//  1. Load the index and flatten the HEAD tree.
//  2. Walk the working tree, skipping .yit/ and ignored paths.
//  3. For every path seen anywhere, compare index against HEAD and the
//     working file against the index entry, or the HEAD entry if unstaged.
//
// Paths clean in both comparisons are omitted. Entries are sorted by path.
func (r *Repo) Status() ([]StatusEntry, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w: %w", ErrIndexParsing, err)
	}
	staged := idx.Entries()

	head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	committed, err := r.CommitTreeMap(head)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	work, err := r.workingFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w: %w", ErrIO, err)
	}

	paths := make(map[string]struct{}, len(work)+len(staged)+len(committed))
	for p := range work {
		paths[p] = struct{}{}
	}
	for p := range staged {
		paths[p] = struct{}{}
	}
	for p := range committed {
		paths[p] = struct{}{}
	}

	var entries []StatusEntry
	for p := range paths {
		stagedHash, inIndex := staged[p]
		headHash, inHead := committed[p]
		_, onDisk := work[p]

		e := StatusEntry{Path: p}
		switch {
		case !inIndex && !inHead:
			e.IndexStatus, e.WorkStatus = StatusUntracked, StatusUntracked
			entries = append(entries, e)
			continue
		case inIndex && !inHead:
			e.IndexStatus = StatusNew
		case inIndex && stagedHash != headHash:
			e.IndexStatus = StatusModified
		}

		want := headHash
		if inIndex {
			want = stagedHash
		}
		switch {
		case !onDisk:
			e.WorkStatus = StatusDeleted
		case r.workingHash(p) != want:
			e.WorkStatus = StatusDirty
		}

		if e.IndexStatus != StatusClean || e.WorkStatus != StatusClean {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// workingFiles returns the repo-relative paths of regular files in the
// working tree that are not ignored.
func (r *Repo) workingFiles() (map[string]struct{}, error) {
	ic := NewIgnoreChecker(r.RootDir)
	files := make(map[string]struct{})
	err := filepath.WalkDir(r.RootDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(r.RootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if ic.IsIgnored(rel, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files[rel] = struct{}{}
		}
		return nil
	})
	return files, err
}

// workingHash returns the blob hash of a working file, or "" if it cannot
// be hashed.
func (r *Repo) workingHash(rel string) object.Hash {
	h, _, err := object.HashFile(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		r.Logger.Debug("status: cannot hash", zap.String("path", rel), zap.Error(err))
		return ""
	}
	return h
}
