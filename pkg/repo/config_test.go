package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/yit/pkg/tree"
)

func TestConfig_InitWritesDefaults(t *testing.T) {
	r := initRepo(t)

	data, err := os.ReadFile(filepath.Join(r.Dir, ConfigFile))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	for _, want := range []string{"[core]", `default_branch = "master"`, "[tree]", `policy = "lenient"`, "[checkout]"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("config.toml missing %q:\n%s", want, data)
		}
	}

	cfg, err := ReadConfig(r.Dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("ReadConfig() = %+v, want defaults", cfg)
	}
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("[tree]\npolicy = \"strict\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadConfig(dir)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.TreePolicy() != tree.Strict {
		t.Errorf("TreePolicy() = %v, want strict", cfg.TreePolicy())
	}
	if cfg.Core.DefaultBranch != "master" {
		t.Errorf("DefaultBranch = %q, want master", cfg.Core.DefaultBranch)
	}
	if cfg.Checkout.Workers != tree.DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Checkout.Workers, tree.DefaultWorkers)
	}
}

func TestConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("ReadConfig() = %+v, want defaults", cfg)
	}
}

func TestConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad policy":      "[tree]\npolicy = \"sometimes\"\n",
		"bad branch":      "[core]\ndefault_branch = \"a/b\"\n",
		"bad compression": "[core]\ncompression_level = 42\n",
		"bad toml":        "[core\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadConfig(dir); err == nil {
				t.Fatalf("ReadConfig(%q) should fail", content)
			}
		})
	}
}

func TestConfig_OpenUsesRepoConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tree.Policy = "strict"
	cfg.Checkout.Workers = 2
	r, err := Init(t.TempDir(), WithConfig(cfg))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	opened, err := Open(r.RootDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.Config.TreePolicy() != tree.Strict || opened.Config.Checkout.Workers != 2 {
		t.Errorf("Open config = %+v", opened.Config)
	}
}
