package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"
)

const (
	// DefaultCompressionLevel favours speed; any deflate level reads back.
	DefaultCompressionLevel = flate.BestSpeed
	// DefaultCacheSize is the number of decompressed objects kept in memory.
	DefaultCacheSize = 1024
)

type cachedObject struct {
	objType ObjectType
	content string
}

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123...
//
// Stored objects are raw deflate streams of "<type>\n<content>".
type Store struct {
	root   string
	level  int
	cache  *lru.Cache[Hash, cachedObject]
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCompressionLevel sets the deflate level used for new objects.
func WithCompressionLevel(level int) Option {
	return func(s *Store) { s.level = level }
}

// WithCacheSize sets the read cache capacity. Zero or negative disables
// the cache.
func WithCacheSize(n int) Option {
	return func(s *Store) {
		if n <= 0 {
			s.cache = nil
			return
		}
		cache, err := lru.New[Hash, cachedObject](n)
		if err == nil {
			s.cache = cache
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store rooted at the repository directory (the one that
// contains objects/). Fan-out directories are created lazily on write.
func NewStore(root string, opts ...Option) *Store {
	s := &Store{
		root:   root,
		level:  DefaultCompressionLevel,
		logger: zap.NewNop(),
	}
	WithCacheSize(DefaultCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	if s.level < flate.HuffmanOnly || s.level > flate.BestCompression {
		s.level = DefaultCompressionLevel
	}
	return s
}

// Root returns the repository directory the store lives in.
func (s *Store) Root() string {
	return s.root
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !ValidHash(h) {
		return false
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores content under hash with the given type tag. The hash is
// supplied by the caller because each object type hashes a different
// canonical form. Writes are atomic (temp file + rename) and writing an
// existing object is a no-op.
func (s *Store) Write(h Hash, objType ObjectType, content string) error {
	if !ValidHash(h) {
		return fmt.Errorf("object write %q: %w", h, ErrInvalidHash)
	}
	if _, err := os.Stat(s.root); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("object write %s: %w", h, ErrRepoDoesNotExist)
		}
		return fmt.Errorf("object write %s: %w", h, err)
	}

	// Fast path: already exists.
	if s.Has(h) {
		return nil
	}

	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, s.level)
	if err != nil {
		return fmt.Errorf("object write %s: compressor: %w", h, err)
	}
	if _, err := io.WriteString(fw, string(objType)+"\n"+content); err != nil {
		return fmt.Errorf("object write %s: compress: %w", h, err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("object write %s: compress: %w", h, err)
	}

	dir := filepath.Join(s.root, "objects", string(h[:2]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	// Atomic write via temp + rename.
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write close: %w", err)
	}
	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("object write rename: %w", err)
	}

	s.logger.Debug("object written", zap.String("hash", string(h)), zap.String("type", string(objType)))
	return nil
}

// Read retrieves an object by hash, returning its type tag and the content
// that follows the tag line.
func (s *Store) Read(h Hash) (ObjectType, string, error) {
	if !ValidHash(h) {
		return "", "", fmt.Errorf("object read %q: %w", h, ErrInvalidHash)
	}
	if s.cache != nil {
		if obj, ok := s.cache.Get(h); ok {
			return obj.objType, obj.content, nil
		}
	}

	objType, content, err := s.readLoose(h)
	if err != nil {
		return "", "", err
	}
	if s.cache != nil {
		s.cache.Add(h, cachedObject{objType: objType, content: content})
	}
	return objType, content, nil
}

func (s *Store) readLoose(h Hash) (ObjectType, string, error) {
	f, err := os.Open(s.objectPath(h))
	if err != nil {
		return "", "", fmt.Errorf("object read %s: %w", h, err)
	}
	defer f.Close()

	fr := flate.NewReader(f)
	defer fr.Close()
	raw, err := io.ReadAll(fr)
	if err != nil {
		return "", "", fmt.Errorf("object read %s: %w: %v", h, ErrCorrupt, err)
	}
	if !utf8.Valid(raw) {
		return "", "", fmt.Errorf("object read %s: %w: %w", h, ErrCorrupt, ErrNotText)
	}

	tag, content, ok := strings.Cut(string(raw), "\n")
	if !ok {
		return "", "", fmt.Errorf("object read %s: %w: missing type line", h, ErrCorrupt)
	}
	return ObjectType(tag), content, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob hashes and stores blob content.
func (s *Store) WriteBlob(content string) (Hash, error) {
	h := HashBlob(content)
	if err := s.Write(h, TypeBlob, content); err != nil {
		return "", err
	}
	return h, nil
}

// ReadBlob reads blob content.
func (s *Store) ReadBlob(h Hash) (string, error) {
	return s.readTyped(h, TypeBlob)
}

// WriteTree serializes, hashes and stores a tree.
func (s *Store) WriteTree(tr *TreeObj) (Hash, error) {
	content := MarshalTree(tr)
	h := HashTreeContent(content)
	if err := s.Write(h, TypeTree, content); err != nil {
		return "", err
	}
	return h, nil
}

// ReadTree reads and parses a tree.
func (s *Store) ReadTree(h Hash) (*TreeObj, error) {
	content, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	return UnmarshalTree(content)
}

// WriteCommit serializes, hashes and stores a commit.
func (s *Store) WriteCommit(c *CommitObj) (Hash, error) {
	body := MarshalCommit(c)
	h := HashCommitContent(body)
	if err := s.Write(h, TypeCommit, body); err != nil {
		return "", err
	}
	return h, nil
}

// ReadCommit reads and parses a commit.
func (s *Store) ReadCommit(h Hash) (*CommitObj, error) {
	body, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	return UnmarshalCommit(body)
}

func (s *Store) readTyped(h Hash, want ObjectType) (string, error) {
	objType, content, err := s.Read(h)
	if err != nil {
		return "", err
	}
	if objType != want {
		return "", fmt.Errorf("object %s: type mismatch: got %q, want %q", h, objType, want)
	}
	return content, nil
}
