package repo

import (
	"errors"
	"fmt"

	"github.com/odvcencio/yit/pkg/graph"
)

// Log returns up to limit commits of branch following first parents,
// newest first. An empty branch means the current branch, whose log is
// empty before its first commit. limit <= 0 means no limit.
func (r *Repo) Log(branch string, limit int) ([]*graph.Node, error) {
	current := branch == ""
	if current {
		cur, err := r.CurrentBranch()
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		branch = cur
	}
	h, err := r.BranchCommit(branch)
	if err != nil {
		if current && errors.Is(err, ErrBranchNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("log: %w", err)
	}
	nodes, err := r.Graph().Log(h, limit)
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	return nodes, nil
}
