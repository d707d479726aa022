package merge

import (
	"fmt"
	"sort"

	"github.com/odvcencio/yit/pkg/object"
)

// Disposition describes how one path changed across a three-way merge.
// "Ours" is the branch being merged into, "theirs" the branch being merged.
type Disposition int

const (
	Unchanged      Disposition = iota
	OursOnly                   // ours modified, theirs unchanged
	TheirsOnly                 // theirs modified, ours unchanged
	BothSame                   // both modified identically
	BothModified               // both modified differently; needs a line merge
	AddedOurs                  // new path in ours, not in base
	AddedTheirs                // new path in theirs, not in base
	AddedBoth                  // new path on both sides
	DeletedOurs                // deleted by ours
	DeletedTheirs              // deleted by theirs
	DeletedBoth                // deleted on both sides
	DeleteVsModify             // one side deleted, the other modified
)

func (d Disposition) String() string {
	switch d {
	case Unchanged:
		return "Unchanged"
	case OursOnly:
		return "OursOnly"
	case TheirsOnly:
		return "TheirsOnly"
	case BothSame:
		return "BothSame"
	case BothModified:
		return "BothModified"
	case AddedOurs:
		return "AddedOurs"
	case AddedTheirs:
		return "AddedTheirs"
	case AddedBoth:
		return "AddedBoth"
	case DeletedOurs:
		return "DeletedOurs"
	case DeletedTheirs:
		return "DeletedTheirs"
	case DeletedBoth:
		return "DeletedBoth"
	case DeleteVsModify:
		return "DeleteVsModify"
	}
	return fmt.Sprintf("Disposition(%d)", int(d))
}

// PathMatch pairs a path with its blob hash on each side. An empty hash
// means the path is absent on that side.
type PathMatch struct {
	Path        string
	Disposition Disposition
	Base        object.Hash
	Ours        object.Hash
	Theirs      object.Hash
}

// MatchPaths classifies every path in the union of the three maps, in
// sorted path order.
func MatchPaths(base, ours, theirs map[string]object.Hash) []PathMatch {
	keys := make(map[string]struct{}, len(base)+len(ours)+len(theirs))
	for _, m := range []map[string]object.Hash{base, ours, theirs} {
		for k := range m {
			keys[k] = struct{}{}
		}
	}
	paths := make([]string, 0, len(keys))
	for k := range keys {
		paths = append(paths, k)
	}
	sort.Strings(paths)

	out := make([]PathMatch, 0, len(paths))
	for _, p := range paths {
		m := PathMatch{Path: p, Base: base[p], Ours: ours[p], Theirs: theirs[p]}
		m.Disposition = classify(m.Base, m.Ours, m.Theirs)
		out = append(out, m)
	}
	return out
}

// classify determines the Disposition for a path across three revisions.
func classify(base, ours, theirs object.Hash) Disposition {
	inBase := base != ""
	inOurs := ours != ""
	inTheirs := theirs != ""

	switch {
	// Present in all three
	case inBase && inOurs && inTheirs:
		oursChanged := ours != base
		theirsChanged := theirs != base
		switch {
		case !oursChanged && !theirsChanged:
			return Unchanged
		case oursChanged && !theirsChanged:
			return OursOnly
		case !oursChanged && theirsChanged:
			return TheirsOnly
		case ours == theirs:
			return BothSame
		default:
			return BothModified
		}

	// In base and ours, not theirs: theirs deleted
	case inBase && inOurs && !inTheirs:
		if ours != base {
			return DeleteVsModify
		}
		return DeletedTheirs

	// In base and theirs, not ours: ours deleted
	case inBase && !inOurs && inTheirs:
		if theirs != base {
			return DeleteVsModify
		}
		return DeletedOurs

	case inBase && !inOurs && !inTheirs:
		return DeletedBoth

	// Not in base
	case !inBase && inOurs && inTheirs:
		return AddedBoth
	case !inBase && inOurs:
		return AddedOurs
	default:
		return AddedTheirs
	}
}
