package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnore_RepoDirAlwaysIgnored(t *testing.T) {
	ic := NewIgnoreChecker(t.TempDir())

	if !ic.IsIgnored(".yit", true) {
		t.Error("expected .yit to be ignored")
	}
	if !ic.IsIgnored(".yit/HEAD", false) {
		t.Error("expected .yit/HEAD to be ignored")
	}
	if !ic.IsIgnored(".yit/objects/ab/cdef", false) {
		t.Error("expected .yit/objects/ab/cdef to be ignored")
	}
	if ic.IsIgnored("main.go", false) {
		t.Error("expected main.go to NOT be ignored without an ignore file")
	}
}

func TestIgnore_Patterns(t *testing.T) {
	dir := t.TempDir()
	writeIgnoreFile(t, dir, "# build output\n*.log\nbuild/\n!keep.log\ndocs/*.tmp\n**/cache/**\n\n")

	ic := NewIgnoreChecker(dir)
	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"debug.log", false, true},
		{"sub/dir/trace.log", false, true},
		{"keep.log", false, false},
		{"debug.txt", false, false},
		{"build", true, true},
		{"build/output.o", false, true},
		{"build", false, false}, // a file named build is not a directory
		{"docs/a.tmp", false, true},
		{"a.tmp", false, false},
		{"x/cache/y/z", false, true},
		{"# build output", false, false},
	}
	for _, tt := range tests {
		if got := ic.IsIgnored(tt.path, tt.isDir); got != tt.want {
			t.Errorf("IsIgnored(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
		}
	}
}

func writeIgnoreFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, IgnoreFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", IgnoreFile, err)
	}
}
