package object

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes tree entries in the order given. Each line is
//
//	tree <name> <hash>
//	blob <path> <hash>
//
// Callers are responsible for a deterministic entry order.
func MarshalTree(tr *TreeObj) string {
	var b strings.Builder
	for _, e := range tr.Entries {
		kind := TypeBlob
		if e.IsDir {
			kind = TypeTree
		}
		fmt.Fprintf(&b, "%s %s %s\n", kind, e.Name, e.Hash)
	}
	return b.String()
}

// UnmarshalTree parses a tree entry block. Parsing stops at the first empty
// line.
func UnmarshalTree(content string) (*TreeObj, error) {
	tr := &TreeObj{}
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			break
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unmarshal tree: %w: malformed entry %q", ErrCorrupt, line)
		}
		var isDir bool
		switch ObjectType(parts[0]) {
		case TypeTree:
			isDir = true
		case TypeBlob:
		default:
			return nil, fmt.Errorf("unmarshal tree: %w: unknown entry kind %q", ErrCorrupt, parts[0])
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			IsDir: isDir,
			Name:  parts[1],
			Hash:  Hash(parts[2]),
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a commit body (without the "commit" tag line):
//
//	<tree hash>
//	<parent hash>   (zero or more)
//	<empty line>
//	message
//
// Empty parent hashes are skipped so a root commit has no parent lines.
func MarshalCommit(c *CommitObj) string {
	var b strings.Builder
	b.WriteString(string(c.TreeHash))
	b.WriteByte('\n')
	for _, p := range c.Parents {
		if p == "" {
			continue
		}
		b.WriteString(string(p))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(c.Message)
	return b.String()
}

// UnmarshalCommit parses a commit body. A body without the blank separator
// line is corrupt.
func UnmarshalCommit(body string) (*CommitObj, error) {
	lines := strings.Split(body, "\n")
	if len(lines) < 2 || lines[0] == "" {
		return nil, fmt.Errorf("unmarshal commit: %w: missing tree line", ErrCorrupt)
	}
	c := &CommitObj{TreeHash: Hash(lines[0])}
	for i, line := range lines[1:] {
		if line == "" {
			c.Message = strings.Join(lines[i+2:], "\n")
			return c, nil
		}
		c.Parents = append(c.Parents, Hash(line))
	}
	return nil, fmt.Errorf("unmarshal commit: %w: missing message separator", ErrCorrupt)
}
