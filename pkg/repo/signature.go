package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/yit/pkg/object"
	"go.uber.org/zap"
)

// ErrNoSignature is returned by CommitSignature for unsigned commits.
var ErrNoSignature = errors.New("commit has no signature")

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string.
type CommitSigner func(payload []byte) (string, error)

func (r *Repo) signaturePath(h object.Hash) string {
	return filepath.Join(r.Dir, "signatures", string(h))
}

// CommitPayload returns the canonical bytes a signature over commit h
// covers.
func (r *Repo) CommitPayload(h object.Hash) ([]byte, error) {
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, err
	}
	return object.CommitSigningPayload(c), nil
}

// SignCommit signs commit h and stores the detached signature in
// .yit/signatures/<hash>. The commit object itself is unchanged.
func (r *Repo) SignCommit(h object.Hash, signer CommitSigner) error {
	if signer == nil {
		return fmt.Errorf("sign commit: nil signer")
	}
	payload, err := r.CommitPayload(h)
	if err != nil {
		return fmt.Errorf("sign commit: %w", err)
	}
	sig, err := signer(payload)
	if err != nil {
		return fmt.Errorf("sign commit: %w", err)
	}
	path := r.signaturePath(h)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("sign commit: %w: %w", ErrIO, err)
	}
	if err := writeFileAtomic(path, []byte(sig+"\n")); err != nil {
		return fmt.Errorf("sign commit: %w: %w", ErrIO, err)
	}
	r.Logger.Debug("commit signed", zap.String("commit", string(h)))
	return nil
}

// CommitSignature returns the stored signature of commit h.
func (r *Repo) CommitSignature(h object.Hash) (string, error) {
	if !object.ValidHash(h) {
		return "", fmt.Errorf("commit signature: %w %q", object.ErrInvalidHash, h)
	}
	data, err := os.ReadFile(r.signaturePath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("commit signature %s: %w", h, ErrNoSignature)
		}
		return "", fmt.Errorf("commit signature: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
