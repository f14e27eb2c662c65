package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Registry.BaseURL != "https://registry.npmjs.org" {
		t.Errorf("Registry.BaseURL = %q", cfg.Registry.BaseURL)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.RegistryTTL != 24*time.Hour {
		t.Errorf("Cache.RegistryTTL = %v, want 24h", cfg.Cache.RegistryTTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[cache]
backend = "bbolt"
path = "/var/lib/stacktower/cache.db"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.Backend != "bbolt" {
		t.Errorf("Cache.Backend = %q, want bbolt", cfg.Cache.Backend)
	}
	if cfg.Cache.Path != "/var/lib/stacktower/cache.db" {
		t.Errorf("Cache.Path = %q", cfg.Cache.Path)
	}
	// Fields absent from the file should keep their Default() values.
	if cfg.Registry.BaseURL != "https://registry.npmjs.org" {
		t.Errorf("Registry.BaseURL = %q, want default preserved", cfg.Registry.BaseURL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default preserved", cfg.Server.Addr)
	}
}

func TestLoadMergesTenantOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[cache]
tenant = "acme"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Cache.Tenant != "acme" {
		t.Errorf("Cache.Tenant = %q, want acme", cfg.Cache.Tenant)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want default preserved", cfg.Cache.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatal("Load() should error on a missing file")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("not = [valid toml"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should error on invalid TOML")
	}
}
