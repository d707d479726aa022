package object

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"
)

// VerifySummary reports how many loose objects of each kind were checked.
type VerifySummary struct {
	Objects int
	Blobs   int
	Trees   int
	Commits int
}

// Verify re-reads every loose object and checks that it decompresses, carries
// a known type tag and rehashes to its file name. All failures are reported,
// not just the first.
func (s *Store) Verify() (*VerifySummary, error) {
	report := &VerifySummary{}

	hashes, err := s.ListHashes()
	if err != nil {
		return nil, err
	}

	var errs error
	for _, h := range hashes {
		objType, content, err := s.readLoose(h)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("verify %s: %w", h, err))
			continue
		}
		var actual Hash
		switch objType {
		case TypeBlob:
			actual = HashBlob(content)
			report.Blobs++
		case TypeTree:
			actual = HashTreeContent(content)
			report.Trees++
		case TypeCommit:
			actual = HashCommitContent(content)
			report.Commits++
		default:
			errs = multierr.Append(errs, fmt.Errorf("verify %s: %w: unknown type %q", h, ErrCorrupt, objType))
			continue
		}
		if actual != h {
			errs = multierr.Append(errs, fmt.Errorf("verify %s: %w: hash mismatch (computed %s)", h, ErrCorrupt, actual))
			continue
		}
		report.Objects++
	}

	return report, errs
}

// ListHashes returns the hashes of all loose objects in sorted order. Stray
// files that do not look like objects are ignored.
func (s *Store) ListHashes() ([]Hash, error) {
	objectsDir := filepath.Join(s.root, "objects")
	fanoutDirs, err := os.ReadDir(objectsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read objects dir: %w", err)
	}

	hashes := make([]Hash, 0)
	for _, fanoutDir := range fanoutDirs {
		if !fanoutDir.IsDir() {
			continue
		}
		prefix := fanoutDir.Name()
		if !isHexHashComponent(prefix, 2) {
			continue
		}

		objectDir := filepath.Join(objectsDir, prefix)
		objectEntries, err := os.ReadDir(objectDir)
		if err != nil {
			return nil, fmt.Errorf("read objects fanout %s: %w", prefix, err)
		}
		for _, objectEntry := range objectEntries {
			if objectEntry.IsDir() {
				continue
			}
			suffix := objectEntry.Name()
			if !isHexHashComponent(suffix, HashLen-2) {
				continue
			}
			hashes = append(hashes, Hash(prefix+suffix))
		}
	}

	sort.Slice(hashes, func(i, j int) bool {
		return hashes[i] < hashes[j]
	})
	return hashes, nil
}

func isHexHashComponent(s string, expectedLen int) bool {
	if len(s) != expectedLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
