// Package diff compares blobs line by line and trees path by path.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odvcencio/yit/pkg/object"
)

// LineKind classifies one positional difference.
type LineKind int

const (
	Changed LineKind = iota // Both sides have a line at this position and they differ.
	Removed                 // Only the first side has a line at this position.
	Added                   // Only the second side has a line at this position.
)

// LineChange is a difference at a single line position.
type LineChange struct {
	Pos    int // zero-based line index
	Kind   LineKind
	Before string // empty for Added
	After  string // empty for Removed
}

// Compare walks a and b by position. Lines are not aligned: an insertion
// shows up as a change on every following line.
func Compare(a, b []string) []LineChange {
	var out []LineChange
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(b):
			out = append(out, LineChange{Pos: i, Kind: Removed, Before: a[i]})
		case i >= len(a):
			out = append(out, LineChange{Pos: i, Kind: Added, After: b[i]})
		case a[i] != b[i]:
			out = append(out, LineChange{Pos: i, Kind: Changed, Before: a[i], After: b[i]})
		}
	}
	return out
}

// Lines renders the positional diff of a and b: for a mismatch a's line then
// b's line, for the tail of the longer side each remaining line. Every
// emitted line ends with a newline; equal lines emit nothing.
func Lines(a, b []string) string {
	return Render(Compare(a, b))
}

// Render writes changes in the plain Lines format.
func Render(changes []LineChange) string {
	var sb strings.Builder
	for _, c := range changes {
		switch c.Kind {
		case Changed:
			sb.WriteString(c.Before + "\n" + c.After + "\n")
		case Removed:
			sb.WriteString(c.Before + "\n")
		case Added:
			sb.WriteString(c.After + "\n")
		}
	}
	return sb.String()
}

// Blobs diffs the contents of two stored blobs.
func Blobs(store *object.Store, a, b object.Hash) (string, error) {
	changes, err := blobChanges(store, a, b)
	if err != nil {
		return "", err
	}
	return Render(changes), nil
}

func blobChanges(store *object.Store, a, b object.Hash) ([]LineChange, error) {
	var lines [2][]string
	for i, h := range []object.Hash{a, b} {
		if h == "" {
			continue
		}
		content, err := store.ReadBlob(h)
		if err != nil {
			return nil, fmt.Errorf("diff blobs: %w", err)
		}
		lines[i] = strings.Split(content, "\n")
	}
	return Compare(lines[0], lines[1]), nil
}

// ChangeType classifies what happened to a path between two trees.
type ChangeType int

const (
	Modified     ChangeType = iota // Path exists on both sides with different content.
	OnlyInFirst                    // Path exists only in the first tree.
	OnlyInSecond                   // Path exists only in the second tree.
)

func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case OnlyInFirst:
		return "only in first"
	case OnlyInSecond:
		return "only in second"
	}
	return fmt.Sprintf("ChangeType(%d)", int(c))
}

// FileDiff holds the line-level diff for a single path.
type FileDiff struct {
	Path    string
	Status  ChangeType
	Before  object.Hash // empty for OnlyInSecond
	After   object.Hash // empty for OnlyInFirst
	Changes []LineChange
}

// Text renders the diff in the plain Lines format.
func (d FileDiff) Text() string {
	return Render(d.Changes)
}

// Trees compares two flattened trees. Paths with identical hashes are
// omitted; the rest are returned in path order.
func Trees(store *object.Store, a, b map[string]object.Hash) ([]FileDiff, error) {
	paths := make([]string, 0, len(a)+len(b))
	for p := range a {
		paths = append(paths, p)
	}
	for p := range b {
		if _, ok := a[p]; !ok {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var out []FileDiff
	for _, p := range paths {
		ha, hb := a[p], b[p]
		if ha == hb {
			continue
		}
		d := FileDiff{Path: p, Before: ha, After: hb}
		switch {
		case ha == "":
			d.Status = OnlyInSecond
		case hb == "":
			d.Status = OnlyInFirst
		default:
			d.Status = Modified
		}
		changes, err := blobChanges(store, ha, hb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		d.Changes = changes
		out = append(out, d)
	}
	return out, nil
}
