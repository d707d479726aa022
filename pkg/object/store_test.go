package object

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
)

func TestHashBytesDeterminism(t *testing.T) {
	data := []byte("hello world")
	h1 := HashBytes(data)
	h2 := HashBytes(data)
	if h1 != h2 {
		t.Errorf("HashBytes not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != HashLen {
		t.Errorf("Hash length: got %d, want %d", len(h1), HashLen)
	}
}

func TestHashBlobKnownValue(t *testing.T) {
	// sha1("blob\n5\x00hello")
	want := Hash("f2ae0b368113cddd89a1cd591985616bc2ac4a92")
	if got := HashBlob("hello"); got != want {
		t.Fatalf("HashBlob: got %s, want %s", got, want)
	}
}

func TestHashTreeContentExcludesTag(t *testing.T) {
	entries := "blob a.txt 0000000000000000000000000000000000000000\n"
	want := Hash("55626a96e2d2fee65605926803e74e282ab0552f")
	if got := HashTreeContent(entries); got != want {
		t.Fatalf("HashTreeContent: got %s, want %s", got, want)
	}
}

func TestHashCommitContentIncludesTag(t *testing.T) {
	want := Hash("40f1d1a84d7f6f341f5e4eac21cc334af2703ac6")
	if got := HashCommitContent("abc\n\nmsg"); got != want {
		t.Fatalf("HashCommitContent: got %s, want %s", got, want)
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h, content, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if content != "hello" {
		t.Errorf("content: got %q, want %q", content, "hello")
	}
	if h != HashBlob("hello") {
		t.Errorf("hash: got %s, want %s", h, HashBlob("hello"))
	}

	bin := filepath.Join(dir, "bin")
	if err := os.WriteFile(bin, []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := HashFile(bin); !errors.Is(err, ErrNotText) {
		t.Fatalf("HashFile(binary): got %v, want ErrNotText", err)
	}
}

func TestValidHash(t *testing.T) {
	cases := map[Hash]bool{
		HashBlob("x"): true,
		"":            false,
		"abc":         false,
		Hash(strings.Repeat("G", HashLen)): false,
		Hash(strings.Repeat("A", HashLen)): false,
	}
	for h, want := range cases {
		if got := ValidHash(h); got != want {
			t.Errorf("ValidHash(%q): got %v, want %v", h, got, want)
		}
	}
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(dir)
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob("hello world")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if len(h) != HashLen {
		t.Errorf("Hash length: got %d, want %d", len(h), HashLen)
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if gotData != "hello world" {
		t.Errorf("Data: got %q, want %q", gotData, "hello world")
	}
}

func TestStoreOnDiskFormat(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob("foobar")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	f, err := os.Open(filepath.Join(s.Root(), "objects", string(h[:2]), string(h[2:])))
	if err != nil {
		t.Fatalf("open object: %v", err)
	}
	defer f.Close()
	fr := flate.NewReader(f)
	defer fr.Close()
	var sb strings.Builder
	if _, err := io.Copy(&sb, fr); err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if got := sb.String(); got != "blob\nfoobar" {
		t.Fatalf("stored form: got %q, want %q", got, "blob\nfoobar")
	}
}

func TestStoreHas(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob("exists")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if !s.Has(h) {
		t.Error("Has returned false for existing object")
	}
	if s.Has(Hash(strings.Repeat("0", HashLen))) {
		t.Error("Has returned true for non-existing object")
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob("fanout test")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}

	objPath := filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
	if _, err := os.Stat(objPath); os.IsNotExist(err) {
		t.Errorf("Expected fan-out file at %s", objPath)
	}
}

func TestStoreDuplicateWrite(t *testing.T) {
	s := tempStore(t)
	h1, err := s.WriteBlob("duplicate")
	if err != nil {
		t.Fatalf("WriteBlob 1: %v", err)
	}
	h2, err := s.WriteBlob("duplicate")
	if err != nil {
		t.Fatalf("WriteBlob 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Same content produced different hashes: %q vs %q", h1, h2)
	}
}

func TestStoreWriteMissingRoot(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "gone"))
	_, err := s.WriteBlob("anything")
	if !errors.Is(err, ErrRepoDoesNotExist) {
		t.Fatalf("WriteBlob: got %v, want ErrRepoDoesNotExist", err)
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	_, _, err := s.Read(Hash(strings.Repeat("0", HashLen)))
	if err == nil {
		t.Error("Read of missing object should return error")
	}
}

func TestStoreReadCorrupt(t *testing.T) {
	s := tempStore(t)
	h := HashBlob("corrupt")
	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, string(h[2:])), []byte("not deflate at all"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := s.Read(h); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Read: got %v, want ErrCorrupt", err)
	}
}

func TestStoreReadInvalidHash(t *testing.T) {
	s := tempStore(t)
	if _, _, err := s.Read("../../etc/passwd"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("Read: got %v, want ErrInvalidHash", err)
	}
}

func TestStoreTypedMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob("just a blob")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := s.ReadCommit(h); err == nil {
		t.Fatal("ReadCommit on a blob should fail")
	}
}

func TestStoreWriteReadTree(t *testing.T) {
	s := tempStore(t)
	blob, err := s.WriteBlob("x")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	orig := &TreeObj{Entries: []TreeEntry{
		{Name: "a.txt", Hash: blob},
		{IsDir: true, Name: "src", Hash: HashTreeContent("")},
	}}
	h, err := s.WriteTree(orig)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if h != HashTreeContent(MarshalTree(orig)) {
		t.Errorf("tree hash: got %s, want %s", h, HashTreeContent(MarshalTree(orig)))
	}
	got, err := s.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(got.Entries))
	}
	if got.Entries[1] != orig.Entries[1] {
		t.Errorf("entry 1: got %+v, want %+v", got.Entries[1], orig.Entries[1])
	}
}

func TestStoreWriteReadCommit(t *testing.T) {
	s := tempStore(t)
	tree := HashTreeContent("")
	parent := HashBlob("p")
	orig := &CommitObj{TreeHash: tree, Parents: []Hash{parent}, Message: "second\n\nbody"}
	h, err := s.WriteCommit(orig)
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	got, err := s.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if got.TreeHash != tree {
		t.Errorf("TreeHash: got %s, want %s", got.TreeHash, tree)
	}
	if len(got.Parents) != 1 || got.Parents[0] != parent {
		t.Errorf("Parents: got %v, want [%s]", got.Parents, parent)
	}
	if got.Message != orig.Message {
		t.Errorf("Message: got %q, want %q", got.Message, orig.Message)
	}
}

func TestStoreCacheDisabled(t *testing.T) {
	s := NewStore(t.TempDir(), WithCacheSize(0), WithCompressionLevel(flate.BestCompression))
	h, err := s.WriteBlob("no cache")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	got, err := s.ReadBlob(h)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if got != "no cache" {
		t.Errorf("ReadBlob: got %q, want %q", got, "no cache")
	}
}

func TestStoreVerify(t *testing.T) {
	s := tempStore(t)
	blob, err := s.WriteBlob("verify me")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{{Name: "v.txt", Hash: blob}}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if _, err := s.WriteCommit(&CommitObj{TreeHash: tree, Message: "init"}); err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	report, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Objects != 3 || report.Blobs != 1 || report.Trees != 1 || report.Commits != 1 {
		t.Fatalf("Verify report: got %+v", report)
	}

	// Overwrite the blob with content that hashes differently.
	other := NewStore(t.TempDir())
	otherBlob, err := other.WriteBlob("something else")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	data, err := os.ReadFile(other.objectPath(otherBlob))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := os.WriteFile(s.objectPath(blob), data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := s.Verify(); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Verify after tamper: got %v, want ErrCorrupt", err)
	}
}

func TestStoreReachableAndMissing(t *testing.T) {
	s := tempStore(t)
	blob, err := s.WriteBlob("reach")
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	absent := HashBlob("never written")
	tree, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Name: "r.txt", Hash: blob},
		{Name: "gone.txt", Hash: absent},
	}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	commit, err := s.WriteCommit(&CommitObj{TreeHash: tree, Message: "c"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}

	set, err := s.ReachableSet([]Hash{commit})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	for _, h := range []Hash{commit, tree, blob} {
		if _, ok := set[h]; !ok {
			t.Errorf("ReachableSet missing %s", h)
		}
	}
	if _, ok := set[absent]; ok {
		t.Errorf("ReachableSet should not contain absent object")
	}

	missing, err := s.Missing([]Hash{commit})
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if len(missing) != 1 || missing[0] != absent {
		t.Fatalf("Missing: got %v, want [%s]", missing, absent)
	}
}
