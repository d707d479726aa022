package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

// zeroHash stands in for "no commit" on the old side of a branch's first
// reflog record.
const zeroHash object.Hash = "0000000000000000000000000000000000000000"

// ReflogEntry is one recorded movement of a branch ref. OldHash is empty
// when the move created the branch.
type ReflogEntry struct {
	Branch    string
	OldHash   object.Hash
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

// Created reports whether the entry records the creation of the branch.
func (e ReflogEntry) Created() bool {
	return e.OldHash == ""
}

// now is replaced in tests.
var now = time.Now

// reflogPath is .yit/logs/refs/heads/<branch>, mirroring the ref layout.
func (r *Repo) reflogPath(branch string) string {
	return filepath.Join(r.Dir, "logs", "refs", "heads", branch)
}

// record renders e as "<old> <new> <unix> <reason>\n".
func (e ReflogEntry) record() string {
	old := e.OldHash
	if old == "" {
		old = zeroHash
	}
	reason := strings.Join(strings.Fields(e.Reason), " ")
	if reason == "" {
		reason = "update"
	}
	return fmt.Sprintf("%s %s %d %s\n", old, e.NewHash, e.Timestamp, reason)
}

func parseReflogRecord(branch, line string) (ReflogEntry, error) {
	fields := strings.SplitN(line, " ", 4)
	if len(fields) != 4 {
		return ReflogEntry{}, fmt.Errorf("want 4 fields, have %d", len(fields))
	}
	old, next := object.Hash(fields[0]), object.Hash(fields[1])
	if !object.ValidHash(old) || !object.ValidHash(next) {
		return ReflogEntry{}, object.ErrInvalidHash
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return ReflogEntry{}, fmt.Errorf("timestamp: %w", err)
	}
	if old == zeroHash {
		old = ""
	}
	return ReflogEntry{Branch: branch, OldHash: old, NewHash: next, Timestamp: ts, Reason: fields[3]}, nil
}

// appendReflog records a move of branch from old to next.
func (r *Repo) appendReflog(branch string, old, next object.Hash, reason string) error {
	e := ReflogEntry{Branch: branch, OldHash: old, NewHash: next, Timestamp: now().Unix(), Reason: reason}

	logPath := r.reflogPath(branch)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("reflog: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog: %w", err)
	}
	if _, err := f.WriteString(e.record()); err != nil {
		f.Close()
		return fmt.Errorf("reflog: %w", err)
	}
	return f.Close()
}

// ReadReflog returns the reflog of branch, newest first. An empty branch
// (or "HEAD") means the current branch. limit <= 0 returns every entry.
// Records that do not parse are skipped.
func (r *Repo) ReadReflog(branch string, limit int) ([]ReflogEntry, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" || branch == "HEAD" {
		cur, err := r.CurrentBranch()
		if err != nil {
			return nil, fmt.Errorf("read reflog: %w", err)
		}
		branch = cur
	}
	if err := validateBranchName(branch); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	data, err := os.ReadFile(r.reflogPath(branch))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w: %w", ErrIO, err)
	}

	var entries []ReflogEntry
	for n, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		e, err := parseReflogRecord(branch, line)
		if err != nil {
			r.Logger.Warn("skipping reflog record",
				zap.String("branch", branch),
				zap.Int("line", n+1),
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, e)
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
