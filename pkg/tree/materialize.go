package tree

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/odvcencio/yit/pkg/object"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultWorkers is the checkout parallelism used when none is configured.
const DefaultWorkers = 4

// MaterializeOptions tunes Materialize.
type MaterializeOptions struct {
	Policy  Policy
	Workers int
	Logger  *zap.Logger
}

// Materialize writes every blob in entries to its path under workDir,
// creating parent directories. Files not named in entries are left alone.
// Under the lenient policy failures are logged and skipped; under the strict
// policy remaining work is cancelled and the failures are returned.
func Materialize(ctx context.Context, store *object.Store, workDir string, entries map[string]object.Hash, opts MaterializeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	if opts.Policy == Strict {
		p = p.WithCancelOnError()
	}

	var (
		mu      sync.Mutex
		skipped error
	)
	for _, rel := range sortedKeys(entries) {
		h := entries[rel]
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := writeWorkingFile(store, workDir, rel, h)
			if err == nil {
				return nil
			}
			if opts.Policy == Strict {
				return err
			}
			logger.Warn("skipping checkout of file", zap.String("path", rel), zap.Error(err))
			mu.Lock()
			skipped = multierr.Append(skipped, err)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("materialize: %w", err)
	}
	if skipped != nil {
		logger.Debug("materialize finished with skips", zap.Int("skipped", len(multierr.Errors(skipped))))
	}
	return nil
}

func writeWorkingFile(store *object.Store, workDir, rel string, h object.Hash) error {
	clean := path.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return fmt.Errorf("%s: path escapes working tree", rel)
	}
	content, err := store.ReadBlob(h)
	if err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}
	abs := filepath.Join(workDir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("%s: mkdir: %w", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%s: %w", rel, err)
	}
	return nil
}
