// Package graph resolves commits into an in-memory DAG and answers ancestry
// questions over it.
package graph

import (
	"fmt"
	"sync"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

// Node is a resolved commit. A node with an empty Hash is the null node,
// standing in for a commit that could not be read or parsed.
type Node struct {
	Hash     object.Hash
	TreeHash object.Hash
	Message  string
	Parents  []*Node
}

// IsNull reports whether n is nil or the null node.
func (n *Node) IsNull() bool {
	return n == nil || n.Hash == ""
}

// WriteCommit stores a commit object and returns its hash. Empty parent
// hashes are skipped.
func WriteCommit(store *object.Store, message string, parents []object.Hash, tree object.Hash) (object.Hash, error) {
	h, err := store.WriteCommit(&object.CommitObj{
		TreeHash: tree,
		Parents:  parents,
		Message:  message,
	})
	if err != nil {
		return "", fmt.Errorf("write commit: %w", err)
	}
	return h, nil
}

// Graph memoizes commit resolution for one store. It is safe for concurrent
// use.
type Graph struct {
	store  *object.Store
	logger *zap.Logger

	mu    sync.RWMutex
	nodes map[object.Hash]*Node
}

// New returns an empty Graph over store.
func New(store *object.Store, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		store:  store,
		logger: logger,
		nodes:  make(map[object.Hash]*Node),
	}
}

func (g *Graph) load(h object.Hash) (*Node, bool) {
	g.mu.RLock()
	n, ok := g.nodes[h]
	g.mu.RUnlock()
	return n, ok
}

func (g *Graph) remember(h object.Hash, n *Node) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.nodes[h]; ok {
		return existing
	}
	g.nodes[h] = n
	return n
}

// Resolve returns the node for h with its full parent chain. Commits are
// resolved with an explicit worklist so deep histories do not grow the call
// stack. Unreadable or malformed commits resolve to the null node.
func (g *Graph) Resolve(h object.Hash) *Node {
	if h == "" {
		return &Node{}
	}
	if n, ok := g.load(h); ok {
		return n
	}

	type frame struct {
		hash    object.Hash
		commit  *object.CommitObj
		pending bool
	}
	stack := []*frame{{hash: h}}
	expanding := make(map[object.Hash]bool)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if _, ok := g.load(top.hash); ok {
			stack = stack[:len(stack)-1]
			continue
		}

		if !top.pending {
			if expanding[top.hash] {
				// Already being expanded further down the stack.
				stack = stack[:len(stack)-1]
				continue
			}
			top.pending = true
			c, err := g.store.ReadCommit(top.hash)
			if err != nil {
				g.logger.Debug("commit unresolved", zap.String("hash", string(top.hash)), zap.Error(err))
				g.remember(top.hash, &Node{})
				stack = stack[:len(stack)-1]
				continue
			}
			top.commit = c
			expanding[top.hash] = true
			// Push unresolved parents right to left so the leftmost is
			// resolved first.
			for i := len(c.Parents) - 1; i >= 0; i-- {
				p := c.Parents[i]
				if p == "" || expanding[p] {
					continue
				}
				if _, ok := g.load(p); ok {
					continue
				}
				stack = append(stack, &frame{hash: p})
			}
			continue
		}

		node := &Node{
			Hash:     top.hash,
			TreeHash: top.commit.TreeHash,
			Message:  top.commit.Message,
		}
		for _, p := range top.commit.Parents {
			if p == "" {
				continue
			}
			parent, ok := g.load(p)
			if !ok {
				// Only reachable through a cycle, which hashing rules out.
				parent = &Node{}
			}
			node.Parents = append(node.Parents, parent)
		}
		g.remember(top.hash, node)
		delete(expanding, top.hash)
		stack = stack[:len(stack)-1]
	}

	n, _ := g.load(h)
	return n
}

// CacheSize returns the number of memoized nodes.
func (g *Graph) CacheSize() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Log walks first parents from h and returns at most limit nodes, newest
// first. A limit of zero or less means no limit.
func (g *Graph) Log(h object.Hash, limit int) ([]*Node, error) {
	start := g.Resolve(h)
	if start.IsNull() {
		return nil, fmt.Errorf("log: cannot resolve commit %q", h)
	}
	var out []*Node
	for n := start; !n.IsNull(); {
		out = append(out, n)
		if limit > 0 && len(out) >= limit {
			break
		}
		if len(n.Parents) == 0 {
			break
		}
		n = n.Parents[0]
	}
	return out, nil
}
