package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatus_Categories(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "committed", "c", "first")
	commitFile(t, r, "edited", "e", "second")
	commitFile(t, r, "removed", "r", "third")

	writeWork(t, r, "edited", "e2")
	if err := os.Remove(filepath.Join(r.RootDir, "removed")); err != nil {
		t.Fatal(err)
	}
	writeWork(t, r, "new", "n")
	if err := r.Add("new"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	writeWork(t, r, "staged-then-dirty", "v1")
	if err := r.Add("staged-then-dirty"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	writeWork(t, r, "staged-then-dirty", "v2")
	writeWork(t, r, "loose", "l")
	writeWork(t, r, "debug.log", "ignored")
	writeIgnoreFile(t, r.RootDir, "*.log\n")

	entries, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	want := map[string][2]FileStatus{
		"edited":            {StatusClean, StatusDirty},
		"removed":           {StatusClean, StatusDeleted},
		"new":               {StatusNew, StatusClean},
		"staged-then-dirty": {StatusNew, StatusDirty},
		"loose":             {StatusUntracked, StatusUntracked},
		IgnoreFile:          {StatusUntracked, StatusUntracked},
	}
	if len(entries) != len(want) {
		t.Fatalf("Status returned %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, e := range entries {
		if i > 0 && entries[i-1].Path >= e.Path {
			t.Errorf("entries not sorted: %q before %q", entries[i-1].Path, e.Path)
		}
		w, ok := want[e.Path]
		if !ok {
			t.Errorf("unexpected entry %+v", e)
			continue
		}
		if e.IndexStatus != w[0] || e.WorkStatus != w[1] {
			t.Errorf("%s: got index=%d work=%d, want index=%d work=%d", e.Path, e.IndexStatus, e.WorkStatus, w[0], w[1])
		}
	}
}

func TestStatus_StagedModification(t *testing.T) {
	r := initRepo(t)
	commitFile(t, r, "f", "one", "first")
	writeWork(t, r, "f", "two")
	if err := r.Add("f"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Status returned %+v, want one entry", entries)
	}
	if entries[0].IndexStatus != StatusModified || entries[0].WorkStatus != StatusClean {
		t.Errorf("f: %+v, want staged modification with clean work tree", entries[0])
	}
}

func TestReset_UnstagesPaths(t *testing.T) {
	r := initRepo(t)
	writeWork(t, r, "a", "a")
	writeWork(t, r, "b", "b")
	if err := r.Add("a", "b"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Reset("a"); err != nil {
		t.Fatalf("Reset(a): %v", err)
	}
	idx, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if idx.TracksFile("a") || !idx.TracksFile("b") {
		t.Errorf("after Reset(a) index = %v", idx.Paths())
	}
	if got := readWork(t, r, "a"); got != "a" {
		t.Errorf("Reset must not touch the working file, got %q", got)
	}

	if err := r.Reset(); err != nil {
		t.Fatalf("Reset(): %v", err)
	}
	if _, err := os.Stat(r.indexPath()); !os.IsNotExist(err) {
		t.Errorf("Reset() should delete the index, stat err = %v", err)
	}
}
