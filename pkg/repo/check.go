package repo

import (
	"fmt"

	"github.com/odvcencio/yit/pkg/object"
)

// CheckReport summarises a repository integrity check.
type CheckReport struct {
	Objects *object.VerifySummary
	Tips    map[string]object.Hash // branch → tip
	Missing []object.Hash          // referenced from a tip but absent
}

// OK reports whether the check found nothing missing.
func (c *CheckReport) OK() bool {
	return len(c.Missing) == 0
}

// Check rehashes every stored object and then walks the history of every
// branch looking for referenced objects that are not in the store. Corrupt
// objects fail the check with an error; missing ones are listed.
func (r *Repo) Check() (*CheckReport, error) {
	summary, err := r.Store.Verify()
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}

	names, err := r.ListBranches()
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	report := &CheckReport{Objects: summary, Tips: make(map[string]object.Hash, len(names))}
	roots := make([]object.Hash, 0, len(names))
	for _, name := range names {
		h, err := r.BranchCommit(name)
		if err != nil {
			return nil, fmt.Errorf("check: %w", err)
		}
		report.Tips[name] = h
		roots = append(roots, h)
	}

	missing, err := r.Store.Missing(roots)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	report.Missing = missing
	return report, nil
}
