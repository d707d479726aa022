package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

// headsPrefix is the HEAD content prefix preceding the branch name.
const headsPrefix = DirName + "/refs/heads/"

func headTarget(branch string) string {
	return headsPrefix + branch
}

func (r *Repo) branchRefPath(name string) string {
	return filepath.Join(r.Dir, "refs", "heads", name)
}

// Head returns the contents of HEAD: the path, relative to the working
// tree root, of the current branch ref (e.g. ".yit/refs/heads/master").
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// CurrentBranch returns the branch name HEAD points at.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	if !strings.HasPrefix(head, headsPrefix) {
		return "", fmt.Errorf("current branch: unexpected HEAD %q", head)
	}
	return strings.TrimPrefix(head, headsPrefix), nil
}

// HeadCommit returns the commit the current branch points at, or "" when
// the branch has no commits yet.
func (r *Repo) HeadCommit() (object.Hash, error) {
	branch, err := r.CurrentBranch()
	if err != nil {
		return "", err
	}
	h, err := r.BranchCommit(branch)
	if errors.Is(err, ErrBranchNotFound) {
		return "", nil
	}
	return h, err
}

// BranchCommit returns the commit hash stored on the second line of the
// branch ref file.
func (r *Repo) BranchCommit(name string) (object.Hash, error) {
	if err := validateBranchName(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.branchRefPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrBranchNotFound, name)
		}
		return "", fmt.Errorf("read branch %s: %w", name, err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("read branch %s: malformed ref file", name)
	}
	h := object.Hash(strings.TrimSpace(lines[1]))
	if !object.ValidHash(h) {
		return "", fmt.Errorf("read branch %s: %w %q", name, object.ErrInvalidHash, h)
	}
	return h, nil
}

// BranchExists reports whether a ref file exists for name.
func (r *Repo) BranchExists(name string) bool {
	if validateBranchName(name) != nil {
		return false
	}
	info, err := os.Stat(r.branchRefPath(name))
	return err == nil && !info.IsDir()
}

// SetBranchCommit atomically points branch name at h and records the move
// in the branch's reflog.
func (r *Repo) SetBranchCommit(name string, h object.Hash, reason string) error {
	if err := validateBranchName(name); err != nil {
		return err
	}
	if !object.ValidHash(h) {
		return fmt.Errorf("set branch %s: %w %q", name, object.ErrInvalidHash, h)
	}

	old, err := r.BranchCommit(name)
	if err != nil && !errors.Is(err, ErrBranchNotFound) {
		r.Logger.Warn("replacing unreadable ref", zap.String("branch", name), zap.Error(err))
	}

	refPath := r.branchRefPath(name)
	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("set branch %s: %w", name, err)
	}
	if err := writeFileAtomic(refPath, []byte("ref\n"+string(h))); err != nil {
		return fmt.Errorf("set branch %s: %w", name, err)
	}
	if err := r.appendReflog(name, old, h, reason); err != nil {
		return fmt.Errorf("set branch %s: %w", name, err)
	}
	r.Logger.Debug("ref updated",
		zap.String("branch", name),
		zap.String("old", string(old)),
		zap.String("new", string(h)),
	)
	return nil
}

func (r *Repo) setHead(branch string) error {
	if err := writeFileAtomic(filepath.Join(r.Dir, "HEAD"), []byte(headTarget(branch))); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// validateBranchName rejects names that cannot be stored as a single ref
// file under refs/heads.
func validateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidBranch)
	case strings.HasPrefix(name, "-"), strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrInvalidBranch, name)
	case strings.ContainsAny(name, `/\:`), strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q", ErrInvalidBranch, name)
	}
	for _, c := range name {
		if unicode.IsSpace(c) || unicode.IsControl(c) {
			return fmt.Errorf("%w: %q", ErrInvalidBranch, name)
		}
	}
	return nil
}
