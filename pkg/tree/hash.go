package tree

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Hasher writes a Node and everything below it to the object store.
type Hasher struct {
	Store   *object.Store
	WorkDir string
	Policy  Policy
	Logger  *zap.Logger

	skipped error
}

// NewHasher returns a Hasher reading unpinned blobs from workDir.
func NewHasher(store *object.Store, workDir string, policy Policy, logger *zap.Logger) *Hasher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hasher{Store: store, WorkDir: workDir, Policy: policy, Logger: logger}
}

// Hash writes n post-order (subtrees, then blobs) and returns the root tree
// hash. Under the lenient policy blobs that cannot be read are left out of
// the tree and reported by Skipped.
func (h *Hasher) Hash(n *Node) (object.Hash, error) {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	h.skipped = nil
	return h.hashNode(n)
}

// Skipped returns the failures tolerated by the most recent Hash call.
func (h *Hasher) Skipped() error {
	return h.skipped
}

func (h *Hasher) hashNode(n *Node) (object.Hash, error) {
	n.sortChildren()

	entries := make([]object.TreeEntry, 0, len(n.Subtrees)+len(n.Blobs))
	for _, st := range n.Subtrees {
		sh, err := h.hashNode(st)
		if err != nil {
			return "", err
		}
		entries = append(entries, object.TreeEntry{IsDir: true, Name: st.Name, Hash: sh})
	}

	for _, b := range n.Blobs {
		bh, err := h.hashBlob(b)
		if err != nil {
			if h.Policy == Strict {
				return "", fmt.Errorf("hash tree %s: %w", b.Path, err)
			}
			h.Logger.Warn("skipping unreadable file", zap.String("path", b.Path), zap.Error(err))
			h.skipped = multierr.Append(h.skipped, fmt.Errorf("%s: %w", b.Path, err))
			continue
		}
		entries = append(entries, object.TreeEntry{Name: b.Path, Hash: bh})
	}

	th, err := h.Store.WriteTree(&object.TreeObj{Entries: entries})
	if err != nil {
		return "", fmt.Errorf("hash tree %s: %w", n.Name, err)
	}
	return th, nil
}

func (h *Hasher) hashBlob(b BlobRef) (object.Hash, error) {
	if b.Pinned() {
		return b.Hash, nil
	}
	_, content, err := object.HashFile(filepath.Join(h.WorkDir, filepath.FromSlash(b.Path)))
	if err != nil {
		return "", err
	}
	return h.Store.WriteBlob(content)
}

// ToIndexMap flattens the tree stored at root into a path → blob hash map.
// Subtrees are visited with an explicit worklist.
func ToIndexMap(store *object.Store, root object.Hash) (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	stack := []object.Hash{root}
	for len(stack) > 0 {
		th := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tr, err := store.ReadTree(th)
		if err != nil {
			return nil, fmt.Errorf("flatten tree %s: %w", th, err)
		}
		for _, e := range tr.Entries {
			if e.IsDir {
				stack = append(stack, e.Hash)
				continue
			}
			out[e.Name] = e.Hash
		}
	}
	return out, nil
}
