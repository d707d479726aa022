package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
)

func TestCheckout_CreatesBranchAtHead(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foobar", "test content", "first")
	master, _ := r.BranchCommit("master")

	if err := r.Checkout("branch1"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "branch1" {
		t.Errorf("CurrentBranch() = %q, want branch1", branch)
	}
	tip, err := r.BranchCommit("branch1")
	if err != nil {
		t.Fatalf("BranchCommit: %v", err)
	}
	if tip != master {
		t.Errorf("branch1 = %q, want master tip %q", tip, master)
	}
	head, _ := r.Head()
	if head != ".yit/refs/heads/branch1" {
		t.Errorf("HEAD = %q", head)
	}
}

func TestCheckout_RestoresFiles(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "foobar", "test content", "first")
	if err := r.Checkout("branch1"); err != nil {
		t.Fatalf("Checkout(branch1): %v", err)
	}
	commitFile(t, r, "ehoo/daaa", "daaa", "add daaa")
	writeWork(t, r, "foobar", "scribbled")

	if err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout(master): %v", err)
	}
	if got := readWork(t, r, "foobar"); got != "test content" {
		t.Errorf("foobar = %q, want %q", got, "test content")
	}
	// Files absent from the target tree are left in place.
	if got := readWork(t, r, "ehoo/daaa"); got != "daaa" {
		t.Errorf("ehoo/daaa = %q, want it left untouched", got)
	}

	if err := os.RemoveAll(filepath.Join(r.RootDir, "ehoo")); err != nil {
		t.Fatal(err)
	}
	if err := r.Checkout("branch1"); err != nil {
		t.Fatalf("Checkout(branch1): %v", err)
	}
	if got := readWork(t, r, "ehoo/daaa"); got != "daaa" {
		t.Errorf("ehoo/daaa = %q, want restored content", got)
	}
}

func TestCheckout_DeletesIndex(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "a", "a", "first")
	writeWork(t, r, "b", "b")
	if err := r.Add("b"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Checkout("other"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if _, err := os.Stat(r.indexPath()); !os.IsNotExist(err) {
		t.Errorf("index should be removed by checkout, stat err = %v", err)
	}
}

func TestCheckout_UnbornHeadOnlyMovesHead(t *testing.T) {
	r := initRepo(t)

	if err := r.Checkout("feature"); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if r.BranchExists("feature") {
		t.Error("no ref should be created before the first commit")
	}
	branch, _ := r.CurrentBranch()
	if branch != "feature" {
		t.Errorf("CurrentBranch() = %q, want feature", branch)
	}

	commitFile(t, r, "x", "x", "first on feature")
	if !r.BranchExists("feature") {
		t.Error("first commit should create the feature ref")
	}
}

func TestCheckout_InvalidBranch(t *testing.T) {
	r := initRepo(t)
	err := r.Checkout("../escape")
	if !errors.Is(err, ErrCheckout) || !errors.Is(err, ErrInvalidBranch) {
		t.Fatalf("Checkout error = %v, want ErrCheckout wrapping ErrInvalidBranch", err)
	}
}

func TestCheckout_StrictFailureKeepsHeadAndIndex(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "a", "a", "first")
	if err := r.Checkout("other"); err != nil {
		t.Fatalf("Checkout(other): %v", err)
	}
	commitFile(t, r, "only-other", "o", "other")
	if err := r.Checkout("master"); err != nil {
		t.Fatalf("Checkout(master): %v", err)
	}
	writeWork(t, r, "staged", "s")
	if err := r.Add("staged"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	lost := string(object.HashBlob("o"))
	if err := os.Remove(filepath.Join(r.Dir, "objects", lost[:2], lost[2:])); err != nil {
		t.Fatal(err)
	}
	// Reopen so no cached copy of the blob survives.
	r, err := Open(r.RootDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r.Config.Tree.Policy = tree.Strict.String()

	if err := r.Checkout("other"); !errors.Is(err, ErrCheckout) {
		t.Fatalf("Checkout error = %v, want ErrCheckout", err)
	}
	if branch, _ := r.CurrentBranch(); branch != "master" {
		t.Errorf("CurrentBranch() = %q after a failed checkout, want master", branch)
	}
	if _, err := os.Stat(r.indexPath()); err != nil {
		t.Errorf("index should survive a failed checkout: %v", err)
	}
}
