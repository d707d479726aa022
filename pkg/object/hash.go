package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

// HashBytes computes the raw SHA-1 of data and returns it as a lowercase
// hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashBlob computes the blob hash over "blob\n<size>\0<content>". The size
// is the byte length of content, which equals the working file size.
func HashBlob(content string) Hash {
	h := sha1.New()
	h.Write([]byte(string(TypeBlob) + "\n" + strconv.Itoa(len(content)) + "\x00"))
	h.Write([]byte(content))
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// HashTreeContent hashes a tree entry block. Unlike blobs and commits the
// type tag is not part of the digest.
func HashTreeContent(entries string) Hash {
	return HashBytes([]byte(entries))
}

// HashCommitContent hashes a commit body with its "commit\n" tag prepended,
// which is exactly the stored form.
func HashCommitContent(body string) Hash {
	return HashBytes([]byte(string(TypeCommit) + "\n" + body))
}

// HashFile reads a working file and returns its blob hash together with its
// content. Nothing is written to the store. Files that are not valid UTF-8
// text are rejected.
func HashFile(path string) (Hash, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("hash file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", "", fmt.Errorf("hash file %s: %w", path, ErrNotText)
	}
	content := string(data)
	return HashBlob(content), content, nil
}

// ValidHash reports whether h looks like a 40-character lowercase hex digest.
func ValidHash(h Hash) bool {
	if len(h) != HashLen {
		return false
	}
	for i := 0; i < len(h); i++ {
		c := h[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
