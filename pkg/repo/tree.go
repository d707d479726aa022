package repo

import (
	"fmt"

	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
)

// CommitTreeMap flattens the tree of commit h into a path → blob hash map.
// An empty hash yields an empty map.
func (r *Repo) CommitTreeMap(h object.Hash) (map[string]object.Hash, error) {
	if h == "" {
		return map[string]object.Hash{}, nil
	}
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", h, err)
	}
	m, err := tree.ToIndexMap(r.Store, c.TreeHash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", h, err)
	}
	return m, nil
}

// BranchTreeMap flattens the tree at the tip of branch name.
func (r *Repo) BranchTreeMap(name string) (map[string]object.Hash, error) {
	h, err := r.BranchCommit(name)
	if err != nil {
		return nil, err
	}
	return r.CommitTreeMap(h)
}

func (r *Repo) hasher() *tree.Hasher {
	return tree.NewHasher(r.Store, r.RootDir, r.Config.TreePolicy(), r.Logger.Named("tree"))
}
