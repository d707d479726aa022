package object

import "errors"

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// HashLen is the length of a hex-encoded Hash.
const HashLen = 40

// ObjectType identifies the kind of object stored. It is also the first
// line of every stored object.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

var (
	// ErrRepoDoesNotExist is returned when the store root directory is absent.
	ErrRepoDoesNotExist = errors.New("repository does not exist")
	// ErrCorrupt covers objects that fail to decompress, decode or parse.
	ErrCorrupt = errors.New("corrupt object")
	// ErrNotText is returned for content that is not valid UTF-8.
	ErrNotText = errors.New("content is not valid text")
	// ErrInvalidHash is returned for hashes that cannot address an object.
	ErrInvalidHash = errors.New("invalid object hash")
)

// TreeEntry is one line of a tree object. Subtree entries carry the
// directory name; blob entries carry the full repository-relative path.
type TreeEntry struct {
	IsDir bool
	Name  string
	Hash  Hash
}

// TreeObj is a parsed tree object.
type TreeObj struct {
	Entries []TreeEntry
}

// CommitObj is a parsed commit object.
type CommitObj struct {
	TreeHash Hash
	Parents  []Hash
	Message  string
}
