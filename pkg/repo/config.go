package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/flate"
	"github.com/odvcencio/yit/pkg/object"
	"github.com/odvcencio/yit/pkg/tree"
)

// ConfigFile is the repository config file name inside .yit/.
const ConfigFile = "config.toml"

// Config stores repository-local settings.
type Config struct {
	Core     CoreConfig     `toml:"core"`
	Tree     TreeConfig     `toml:"tree"`
	Cache    CacheConfig    `toml:"cache"`
	Checkout CheckoutConfig `toml:"checkout"`
}

type CoreConfig struct {
	DefaultBranch    string `toml:"default_branch"`
	CompressionLevel int    `toml:"compression_level"`
}

type TreeConfig struct {
	// Policy is "lenient" or "strict".
	Policy string `toml:"policy"`
}

type CacheConfig struct {
	// Objects is the number of decompressed objects kept in memory.
	Objects int `toml:"objects"`
}

type CheckoutConfig struct {
	Workers int `toml:"workers"`
}

// DefaultConfig returns the settings written by Init.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			DefaultBranch:    "master",
			CompressionLevel: flate.BestSpeed,
		},
		Tree:     TreeConfig{Policy: tree.Lenient.String()},
		Cache:    CacheConfig{Objects: object.DefaultCacheSize},
		Checkout: CheckoutConfig{Workers: tree.DefaultWorkers},
	}
}

// Validate checks values that would otherwise fail later.
func (c *Config) Validate() error {
	if err := validateBranchName(c.Core.DefaultBranch); err != nil {
		return fmt.Errorf("config: core.default_branch: %w", err)
	}
	if c.Core.CompressionLevel < flate.HuffmanOnly || c.Core.CompressionLevel > flate.BestCompression {
		return fmt.Errorf("config: core.compression_level %d out of range", c.Core.CompressionLevel)
	}
	if _, err := tree.ParsePolicy(c.Tree.Policy); err != nil {
		return fmt.Errorf("config: tree.policy: %w", err)
	}
	if c.Checkout.Workers < 0 {
		return fmt.Errorf("config: checkout.workers must not be negative")
	}
	return nil
}

// TreePolicy returns the parsed tree policy, lenient when unset.
func (c *Config) TreePolicy() tree.Policy {
	p, _ := tree.ParsePolicy(c.Tree.Policy)
	return p
}

func configPath(dir string) string {
	return filepath.Join(dir, ConfigFile)
}

// ReadConfig reads .yit/config.toml. A missing file yields the defaults;
// keys absent from the file keep their default values.
func ReadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(configPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	cfg.Core.DefaultBranch = strings.TrimSpace(cfg.Core.DefaultBranch)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig atomically writes .yit/config.toml.
func WriteConfig(dir string, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := writeFileAtomic(configPath(dir), buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
