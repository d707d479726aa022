package graph

import "github.com/odvcencio/yit/pkg/object"

// IsAncestor reports whether candidate is a proper ancestor of n. The search
// is exhaustive: every parent chain is followed depth-first, left to right,
// visiting each commit once.
func IsAncestor(n, candidate *Node) bool {
	if n.IsNull() || candidate.IsNull() {
		return false
	}
	found := false
	walk(n, func(x *Node) bool {
		if x != n && x.Hash == candidate.Hash {
			found = true
			return false
		}
		return true
	})
	return found
}

// MostRecentCommonAncestor walks a and its ancestors in depth-first
// preorder, parents left to right, and returns the first commit that is b or
// an ancestor of b. It returns nil when the histories are unrelated.
func MostRecentCommonAncestor(a, b *Node) *Node {
	if a.IsNull() || b.IsNull() {
		return nil
	}
	reach := make(map[object.Hash]struct{})
	walk(b, func(x *Node) bool {
		reach[x.Hash] = struct{}{}
		return true
	})

	var found *Node
	walk(a, func(x *Node) bool {
		if _, ok := reach[x.Hash]; ok {
			found = x
			return false
		}
		return true
	})
	return found
}

// walk visits n and its ancestors in depth-first preorder, parents left to
// right, skipping null nodes and commits already seen. Returning false from
// visit stops the walk.
func walk(n *Node, visit func(*Node) bool) {
	seen := make(map[object.Hash]struct{})
	stack := []*Node{n}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if x.IsNull() {
			continue
		}
		if _, ok := seen[x.Hash]; ok {
			continue
		}
		seen[x.Hash] = struct{}{}
		if !visit(x) {
			return
		}
		for i := len(x.Parents) - 1; i >= 0; i-- {
			stack = append(stack, x.Parents[i])
		}
	}
}
