package repo

import (
	"fmt"

	"github.com/odvcencio/yit/pkg/graph"
	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
	"go.uber.org/zap"
)

// Commit records the staged changes on the current branch.
//
//  1. Load the index; an empty index is ErrNothingToCommit.
//  2. Overlay the index on the tree of the current branch tip.
//  3. Hash the resulting tree, rereading every file from the working tree.
//  4. Write the commit with the branch tip (if any) as its parent.
//  5. Advance the branch and delete the index.
func (r *Repo) Commit(message string) (object.Hash, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrIndexParsing, err)
	}
	if idx.Len() == 0 {
		return "", fmt.Errorf("commit: %w: %w", ErrCommit, ErrNothingToCommit)
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrCommit, err)
	}
	parent, err := r.HeadCommit()
	if err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrCommit, err)
	}

	base, err := r.CommitTreeMap(parent)
	if err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrCommit, err)
	}
	for p, h := range idx.Entries() {
		base[p] = h
	}

	hasher := r.hasher()
	treeHash, err := hasher.Hash(tree.BuildFromIndex(base))
	if err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrCommit, err)
	}
	if skipped := hasher.Skipped(); skipped != nil {
		r.Logger.Warn("commit: files left out of tree", zap.Error(skipped))
	}

	h, err := graph.WriteCommit(r.Store, message, []object.Hash{parent}, treeHash)
	if err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrCommit, err)
	}
	if err := r.SetBranchCommit(branch, h, "commit: "+message); err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrIO, err)
	}
	if err := idx.Delete(); err != nil {
		return "", fmt.Errorf("commit: %w: %w", ErrIO, err)
	}

	r.Logger.Debug("committed",
		zap.String("branch", branch),
		zap.String("commit", string(h)),
		zap.String("tree", string(treeHash)),
	)
	return h, nil
}

