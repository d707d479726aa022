package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Filesystem hooks, replaced in tests to exercise rollback.
var (
	writeFile = os.WriteFile
	removeAll = os.RemoveAll
)

// Init creates a new yit repository in dir. It creates the .yit/ directory
// structure: objects/, refs/heads/, refs/tags/, logs/, HEAD and config.toml.
// Returns ErrRepoAlreadyExists if a .yit/ directory already exists. If any
// step fails the partially created directory is removed.
func Init(dir string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)
	cfg := o.config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	yitDir := filepath.Join(dir, DirName)
	if _, err := os.Stat(yitDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrRepoAlreadyExists, yitDir)
	}

	if err := initLayout(yitDir, cfg); err != nil {
		cause := fmt.Errorf("init: %w: %w", ErrIO, err)
		if rbErr := removeAll(yitDir); rbErr != nil {
			return nil, &RollbackError{Dir: yitDir, Cause: cause, Rollback: rbErr}
		}
		return nil, cause
	}

	o.logger.Debug("repository initialized", zap.String("dir", yitDir))
	return newRepo(dir, yitDir, cfg, o.logger), nil
}

func initLayout(yitDir string, cfg *Config) error {
	dirs := []string{
		filepath.Join(yitDir, "objects"),
		filepath.Join(yitDir, "refs", "heads"),
		filepath.Join(yitDir, "refs", "tags"),
		filepath.Join(yitDir, "logs", "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", d, err)
		}
	}

	head := headTarget(cfg.Core.DefaultBranch)
	if err := writeFile(filepath.Join(yitDir, "HEAD"), []byte(head), 0o644); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return WriteConfig(yitDir, cfg)
}

// Open searches upward from path for a .yit/ directory and opens the
// repository. Returns ErrRepoDoesNotExist if no .yit/ directory is found.
func Open(path string, opts ...Option) (*Repo, error) {
	o := buildOptions(opts)

	// Resolve to absolute path for consistent traversal.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		yitDir := filepath.Join(cur, DirName)
		info, err := os.Stat(yitDir)
		if err == nil && info.IsDir() {
			cfg, err := ReadConfig(yitDir)
			if err != nil {
				return nil, fmt.Errorf("open: %w", err)
			}
			return newRepo(cur, yitDir, cfg, o.logger), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached filesystem root without finding .yit/.
			return nil, fmt.Errorf("open: %w: not a yit repository (or any parent up to /)", ErrRepoDoesNotExist)
		}
		cur = parent
	}
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
