// Package merge implements merge classification, the positional line-level
// three-way merge and tree reconciliation.
package merge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odvcencio/yit/pkg/graph"
	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
	"go.uber.org/zap"
)

var (
	// ErrConflict is returned when both sides changed the same line, or one
	// side deleted a path the other modified.
	ErrConflict = errors.New("merge conflict")
	// ErrDoesNotHaveOrigin is returned when both sides added the same path.
	ErrDoesNotHaveOrigin = errors.New("path added on both sides without common origin")
	// ErrNoCommonAncestor is returned when two histories share no commit.
	ErrNoCommonAncestor = errors.New("no common ancestor")
)

// Outcome is the kind of merge two branch tips call for.
type Outcome int

const (
	ThreeWay Outcome = iota
	FastForward
	AlreadyMerged
)

func (o Outcome) String() string {
	switch o {
	case ThreeWay:
		return "three-way"
	case FastForward:
		return "fast-forward"
	case AlreadyMerged:
		return "already-merged"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Classify decides how merging source into target proceeds.
func Classify(source, target *graph.Node) Outcome {
	switch {
	case source.Hash == target.Hash:
		return AlreadyMerged
	case graph.IsAncestor(target, source):
		return AlreadyMerged
	case graph.IsAncestor(source, target):
		return FastForward
	default:
		return ThreeWay
	}
}

// MergeLines merges theirs into ours relative to parent, comparing lines by
// position. Walking theirs: lines past the end of ours are kept; lines equal
// in both are kept; otherwise theirs wins where ours still matches parent,
// and anything else is a conflict. Trailing lines of ours beyond theirs are
// dropped.
func MergeLines(parent, ours, theirs []string) ([]string, error) {
	out := make([]string, 0, len(theirs))
	for i, line := range theirs {
		switch {
		case i >= len(ours):
			out = append(out, line)
		case line == ours[i]:
			out = append(out, line)
		case i >= len(parent) || ours[i] != parent[i]:
			return nil, fmt.Errorf("line %d: %w", i+1, ErrConflict)
		default:
			out = append(out, line)
		}
	}
	return out, nil
}

// Merger reconciles trees against a store. It never touches the working
// tree; callers project Result.Files once the merge is committed.
type Merger struct {
	Store  *object.Store
	Logger *zap.Logger
}

// NewMerger returns a Merger reading and writing blobs in store.
func NewMerger(store *object.Store, logger *zap.Logger) *Merger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Merger{Store: store, Logger: logger}
}

// MergeBlobs loads three blobs and merges them with MergeLines.
func (m *Merger) MergeBlobs(parent, ours, theirs object.Hash) (string, error) {
	var texts [3]string
	for i, h := range []object.Hash{parent, ours, theirs} {
		content, err := m.Store.ReadBlob(h)
		if err != nil {
			return "", fmt.Errorf("merge blobs: %w", err)
		}
		texts[i] = content
	}
	merged, err := MergeLines(
		strings.Split(texts[0], "\n"),
		strings.Split(texts[1], "\n"),
		strings.Split(texts[2], "\n"),
	)
	if err != nil {
		return "", err
	}
	return strings.Join(merged, "\n"), nil
}

// Stats counts path dispositions seen by ThreeFold.
type Stats struct {
	Carried   int
	Merged    int
	Deleted   int
	Unchanged int
}

// Result is the reconciled tree plus what happened to get there.
type Result struct {
	Tree   *tree.Node
	Stats  Stats
	Merged []string // paths whose contents were line-merged

	// Files maps each line-merged path to its new blob. The blobs are
	// stored; the working files are not yet written.
	Files map[string]object.Hash
}

// ThreeFold reconciles the ancestor, source (theirs) and target (ours) flat
// maps into a tree of pinned blob refs. Line-merged blobs are written to the
// store and listed in Result.Files. Nothing is written outside the store, so
// a failed reconciliation leaves the working tree as it was.
func (m *Merger) ThreeFold(ancestor, source, target map[string]object.Hash) (*Result, error) {
	if m.Logger == nil {
		m.Logger = zap.NewNop()
	}
	res := &Result{Tree: tree.New(), Files: make(map[string]object.Hash)}

	for _, pm := range MatchPaths(ancestor, target, source) {
		switch pm.Disposition {
		case Unchanged:
			res.Tree.Insert(pm.Path, pm.Base)
			res.Stats.Unchanged++
		case OursOnly, BothSame, AddedOurs:
			res.Tree.Insert(pm.Path, pm.Ours)
			res.Stats.Carried++
		case TheirsOnly, AddedTheirs:
			res.Tree.Insert(pm.Path, pm.Theirs)
			res.Stats.Carried++
		case AddedBoth:
			return nil, fmt.Errorf("%s: %w", pm.Path, ErrDoesNotHaveOrigin)
		case DeleteVsModify:
			return nil, fmt.Errorf("%s: modified on one side, deleted on the other: %w", pm.Path, ErrConflict)
		case DeletedOurs, DeletedTheirs, DeletedBoth:
			res.Stats.Deleted++
		case BothModified:
			h, err := m.mergePath(pm)
			if err != nil {
				return nil, err
			}
			res.Tree.Insert(pm.Path, h)
			res.Files[pm.Path] = h
			res.Merged = append(res.Merged, pm.Path)
			res.Stats.Merged++
		}
		m.Logger.Debug("merge path", zap.String("path", pm.Path), zap.Stringer("disposition", pm.Disposition))
	}
	return res, nil
}

func (m *Merger) mergePath(pm PathMatch) (object.Hash, error) {
	content, err := m.MergeBlobs(pm.Base, pm.Ours, pm.Theirs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", pm.Path, err)
	}
	h, err := m.Store.WriteBlob(content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", pm.Path, err)
	}
	return h, nil
}
