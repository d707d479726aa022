package repo

import (
	"fmt"

	"github.com/odvcencio/yit/pkg/diff"
)

// Diff compares the trees at the tips of two branches. Paths identical on
// both sides are omitted.
func (r *Repo) Diff(branch1, branch2 string) ([]diff.FileDiff, error) {
	a, err := r.BranchTreeMap(branch1)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	b, err := r.BranchTreeMap(branch2)
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	diffs, err := diff.Trees(r.Store, a, b)
	if err != nil {
		return nil, fmt.Errorf("diff: %w: %w", ErrIO, err)
	}
	return diffs, nil
}
