package repo

import (
	"context"
	"fmt"

	"github.com/odvcencio/yit/pkg/graph"
	"github.com/odvcencio/yit/pkg/merge"
	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
	"go.uber.org/zap"
)

// MergeReport is the overall result of a repository-level merge.
type MergeReport struct {
	Outcome     merge.Outcome
	Source      object.Hash // tip of the merged branch
	Target      object.Hash // tip of the branch merged into, before the merge
	Base        object.Hash // common ancestor, three-way merges only
	MergeCommit object.Hash // new tip of the target branch; empty when already merged
	Stats       merge.Stats
	Merged      []string // paths whose contents were line-merged
}

// Merge merges branch into the branch named into. See MergeContext.
func (r *Repo) Merge(branch, into string) (*MergeReport, error) {
	return r.MergeContext(context.Background(), branch, into)
}

// MergeContext merges branch into the branch named into.
//
// Source and target tips are classified first: an already contained source
// changes nothing and a fast-forward only moves the target ref. Otherwise
// the trees of the common ancestor, source and target are reconciled and a
// merge commit with parents [source, target] is written to into. Line-merged
// files reach the working tree only after the ref has moved; a merge that
// fails before that leaves the working tree untouched.
func (r *Repo) MergeContext(ctx context.Context, branch, into string) (*MergeReport, error) {
	source, err := r.BranchCommit(branch)
	if err != nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrMerge, err)
	}
	target, err := r.BranchCommit(into)
	if err != nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrMerge, err)
	}

	g := r.Graph()
	srcNode, tgtNode := g.Resolve(source), g.Resolve(target)
	if srcNode.IsNull() || tgtNode.IsNull() {
		return nil, fmt.Errorf("merge: %w: unreadable branch tip", ErrMerge)
	}

	report := &MergeReport{
		Outcome: merge.Classify(srcNode, tgtNode),
		Source:  source,
		Target:  target,
	}
	r.Logger.Debug("merge classified",
		zap.String("branch", branch),
		zap.String("into", into),
		zap.Stringer("outcome", report.Outcome),
	)

	switch report.Outcome {
	case merge.AlreadyMerged:
		return report, nil
	case merge.FastForward:
		if err := r.SetBranchCommit(into, source, "merge "+branch+": fast-forward"); err != nil {
			return nil, fmt.Errorf("merge: %w: %w", ErrIO, err)
		}
		report.MergeCommit = source
		return report, nil
	}

	base := graph.MostRecentCommonAncestor(srcNode, tgtNode)
	if base == nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrMerge, merge.ErrNoCommonAncestor)
	}
	report.Base = base.Hash

	maps := make([]map[string]object.Hash, 3)
	for i, h := range []object.Hash{base.Hash, source, target} {
		m, err := r.CommitTreeMap(h)
		if err != nil {
			return nil, fmt.Errorf("merge: %w: %w", ErrMerge, err)
		}
		maps[i] = m
	}

	merger := merge.NewMerger(r.Store, r.Logger.Named("merge"))
	res, err := merger.ThreeFold(maps[0], maps[1], maps[2])
	if err != nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrMerge, err)
	}
	report.Stats = res.Stats
	report.Merged = res.Merged

	treeHash, err := r.hasher().Hash(res.Tree)
	if err != nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrMerge, err)
	}
	message := fmt.Sprintf("Merge %s into %s", branch, into)
	h, err := graph.WriteCommit(r.Store, message, []object.Hash{source, target}, treeHash)
	if err != nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrMerge, err)
	}
	if err := r.SetBranchCommit(into, h, "merge "+branch+": three-way"); err != nil {
		return nil, fmt.Errorf("merge: %w: %w", ErrIO, err)
	}
	report.MergeCommit = h

	err = tree.Materialize(ctx, r.Store, r.RootDir, res.Files, tree.MaterializeOptions{
		Policy:  tree.Strict,
		Workers: r.Config.Checkout.Workers,
		Logger:  r.Logger.Named("merge"),
	})
	if err != nil {
		return report, fmt.Errorf("merge: %w: committed %s but writing merged files failed: %w", ErrIO, h, err)
	}
	return report, nil
}
