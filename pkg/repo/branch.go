package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/yit/pkg/object"
)

// CreateBranch creates branch name pointing at target. Returns an error if
// the branch already exists.
func (r *Repo) CreateBranch(name string, target object.Hash) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	if r.BranchExists(name) {
		return fmt.Errorf("create branch: branch %q already exists", name)
	}
	if err := r.SetBranchCommit(name, target, "branch: created"); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	return nil
}

// DeleteBranch removes the branch ref file and its reflog. Returns an error
// if the branch is the current branch or does not exist.
func (r *Repo) DeleteBranch(name string) error {
	if err := validateBranchName(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch: cannot delete current branch %q", name)
	}

	if err := os.Remove(r.branchRefPath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete branch: %w: %s", ErrBranchNotFound, name)
		}
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	if err := removeIfExists(r.reflogPath(name)); err != nil {
		return fmt.Errorf("delete branch %q: reflog: %w", name, err)
	}
	return nil
}

// ListBranches reads .yit/refs/heads/ and returns the branch names sorted
// alphabetically.
func (r *Repo) ListBranches() ([]string, error) {
	headsDir := filepath.Join(r.Dir, "refs", "heads")

	entries, err := os.ReadDir(headsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
