package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/yit/pkg/diff"
)

func TestDiff_Branches(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "f", "one\ntwo", "first")
	if err := r.Checkout("other"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	commitFile(t, r, "f", "one\n2", "edit")

	diffs, err := r.Diff("master", "other")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	if len(diffs) != 1 {
		t.Fatalf("Diff returned %d files, want 1", len(diffs))
	}
	if diffs[0].Status != diff.Modified {
		t.Errorf("status = %s, want modified", diffs[0].Status)
	}
	if got := diffs[0].Text(); got != "two\n2\n" {
		t.Errorf("diff text = %q, want %q", got, "two\n2\n")
	}

	same, err := r.Diff("master", "master")
	if err != nil {
		t.Fatalf("Diff(self): %v", err)
	}
	if len(same) != 0 {
		t.Errorf("Diff(self) = %+v, want empty", same)
	}

	if _, err := r.Diff("master", "nope"); !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("Diff(nope) error = %v, want ErrBranchNotFound", err)
	}
}
