package repo

import (
	"context"
	"fmt"

	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
	"go.uber.org/zap"
)

// Checkout switches HEAD to branch. See CheckoutContext.
func (r *Repo) Checkout(branch string) error {
	return r.CheckoutContext(context.Background(), branch)
}

// CheckoutContext switches HEAD to branch.
//
//  1. If branch does not exist it is created at the current HEAD commit.
//     On a branch with no commits yet only HEAD moves.
//  2. Every file of the branch tip's tree is written to the working tree.
//     Files the tree does not name are left in place.
//  3. HEAD is rewritten and the index deleted.
//
// HEAD and the index change only once the files are written, so a strict
// materialization failure leaves the previous branch checked out.
func (r *Repo) CheckoutContext(ctx context.Context, branch string) error {
	if err := validateBranchName(branch); err != nil {
		return fmt.Errorf("checkout: %w: %w", ErrCheckout, err)
	}

	var tip object.Hash
	if r.BranchExists(branch) {
		h, err := r.BranchCommit(branch)
		if err != nil {
			return fmt.Errorf("checkout: %w: %w", ErrCheckout, err)
		}
		tip = h
	} else {
		head, err := r.HeadCommit()
		if err != nil {
			return fmt.Errorf("checkout: %w: %w", ErrCheckout, err)
		}
		if head != "" {
			if err := r.CreateBranch(branch, head); err != nil {
				return fmt.Errorf("checkout: %w: %w", ErrCheckout, err)
			}
		}
		tip = head
	}

	files := 0
	if tip != "" {
		entries, err := r.CommitTreeMap(tip)
		if err != nil {
			return fmt.Errorf("checkout: %w: %w", ErrCheckout, err)
		}
		err = tree.Materialize(ctx, r.Store, r.RootDir, entries, tree.MaterializeOptions{
			Policy:  r.Config.TreePolicy(),
			Workers: r.Config.Checkout.Workers,
			Logger:  r.Logger.Named("checkout"),
		})
		if err != nil {
			return fmt.Errorf("checkout: %w: %w", ErrCheckout, err)
		}
		files = len(entries)
	}

	if err := r.setHead(branch); err != nil {
		return fmt.Errorf("checkout: %w: %w", ErrIO, err)
	}
	if err := removeIfExists(r.indexPath()); err != nil {
		return fmt.Errorf("checkout: %w: remove index: %w", ErrIO, err)
	}

	r.Logger.Debug("checked out",
		zap.String("branch", branch),
		zap.String("commit", string(tip)),
		zap.Int("files", files),
	)
	return nil
}
