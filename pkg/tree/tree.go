// Package tree converts between the flat path → hash form used by the index
// and the hierarchical tree objects stored in the object store.
package tree

import (
	"sort"
	"strings"

	"github.com/odvcencio/yit/pkg/object"
)

// RootName is the name of the root node.
const RootName = "/"

// BlobRef points at a file in the tree. Path is the full repository-relative
// path. An empty Hash means the ref is unpinned and its content is read from
// the working tree when hashed.
type BlobRef struct {
	Path string
	Hash object.Hash
}

// Pinned reports whether the ref carries a known blob hash.
func (b BlobRef) Pinned() bool {
	return b.Hash != ""
}

// Node is a directory in the tree.
type Node struct {
	Name     string
	Blobs    []BlobRef
	Subtrees []*Node
}

// New returns an empty root node.
func New() *Node {
	return &Node{Name: RootName}
}

// BuildFromIndex builds a tree from index entries. Every leaf is unpinned,
// so hashing revalidates the working file instead of trusting the index.
func BuildFromIndex(entries map[string]object.Hash) *Node {
	root := New()
	for _, p := range sortedKeys(entries) {
		root.insert(p, "")
	}
	return root
}

// Insert adds a pinned blob ref at p, creating intermediate subtrees.
func (n *Node) Insert(p string, h object.Hash) {
	n.insert(p, h)
}

func (n *Node) insert(p string, h object.Hash) {
	segments := strings.Split(p, "/")
	cur := n
	for _, seg := range segments[:len(segments)-1] {
		if seg == "" {
			continue
		}
		cur = cur.subtree(seg)
	}
	for i := range cur.Blobs {
		if cur.Blobs[i].Path == p {
			cur.Blobs[i].Hash = h
			return
		}
	}
	cur.Blobs = append(cur.Blobs, BlobRef{Path: p, Hash: h})
}

// subtree returns the child named name, creating it when absent.
func (n *Node) subtree(name string) *Node {
	for _, st := range n.Subtrees {
		if st.Name == name {
			return st
		}
	}
	st := &Node{Name: name}
	n.Subtrees = append(n.Subtrees, st)
	return st
}

// Find returns the blob ref stored at p.
func (n *Node) Find(p string) (BlobRef, bool) {
	segments := strings.Split(p, "/")
	cur := n
	for _, seg := range segments[:len(segments)-1] {
		var next *Node
		for _, st := range cur.Subtrees {
			if st.Name == seg {
				next = st
				break
			}
		}
		if next == nil {
			return BlobRef{}, false
		}
		cur = next
	}
	for _, b := range cur.Blobs {
		if b.Path == p {
			return b, true
		}
	}
	return BlobRef{}, false
}

// Len returns the number of blob refs in the tree.
func (n *Node) Len() int {
	count := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count += len(cur.Blobs)
		stack = append(stack, cur.Subtrees...)
	}
	return count
}

// sortChildren orders subtrees by name and blobs by path, so the encoded
// entry block depends only on the children.
func (n *Node) sortChildren() {
	sort.Slice(n.Subtrees, func(i, j int) bool { return n.Subtrees[i].Name < n.Subtrees[j].Name })
	sort.Slice(n.Blobs, func(i, j int) bool { return n.Blobs[i].Path < n.Blobs[j].Path })
}

func sortedKeys(m map[string]object.Hash) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
