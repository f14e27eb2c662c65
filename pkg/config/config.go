// Package config loads the auditor's optional TOML configuration file,
// overriding the defaults otherwise baked into the CLI and HTTP
// front-ends (cache backend selection, registry base URL, timeouts).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the auditor's top-level configuration. Every field has a
// usable zero value; Load only needs to be called when a user supplies
// an explicit config file.
type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// RegistryConfig configures the upstream npm registry client.
type RegistryConfig struct {
	BaseURL         string        `toml:"base_url"`
	MetadataTimeout time.Duration `toml:"metadata_timeout"`
	ArchiveTimeout  time.Duration `toml:"archive_timeout"`
}

// CacheConfig selects and configures the cache backend.
//
// Backend is one of "file" (default), "bbolt", "sqlite", "redis", or
// "none". Path is used by file/bbolt/sqlite; URL is used by redis.
// Tenant, when set, scopes every report-cache key behind a prefix so
// multiple tenants can share one physical backend without their reports
// colliding — see [github.com/pkgaudit/pkgaudit/pkg/cache.ScopedKeyer].
// Registry-cache keys are not tenant-scoped.
type CacheConfig struct {
	Backend     string        `toml:"backend"`
	Path        string        `toml:"path"`
	URL         string        `toml:"url"`
	Tenant      string        `toml:"tenant"`
	RegistryTTL time.Duration `toml:"registry_ttl"`
	ReportTTL   time.Duration `toml:"report_ttl"`
}

// ServerConfig configures the HTTP presentation layer.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns a Config populated with the auditor's built-in
// defaults: the public npm registry, a file-backed cache under the
// default cache directory, and a 24h TTL for both cache namespaces.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			BaseURL:         "https://registry.npmjs.org",
			MetadataTimeout: 30 * time.Second,
			ArchiveTimeout:  60 * time.Second,
		},
		Cache: CacheConfig{
			Backend:     "file",
			RegistryTTL: 24 * time.Hour,
			ReportTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads a TOML configuration file at path and merges it onto
// Default(), so a config file only needs to set the fields it wants to
// override.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
