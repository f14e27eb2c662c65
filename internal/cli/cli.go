// Package cli implements the stacktower command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pkgaudit/pkgaudit/pkg/audit"
	"github.com/pkgaudit/pkgaudit/pkg/buildinfo"
	"github.com/pkgaudit/pkgaudit/pkg/cache"
	"github.com/pkgaudit/pkgaudit/pkg/config"
	"github.com/pkgaudit/pkgaudit/pkg/integrations/npm"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stacktower"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config
}

// New creates a new CLI instance with a default logger and default config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: config.Default(),
	}
}

// LoadConfig replaces c.Config with the TOML file at path, merged onto
// the built-in defaults.
func (c *CLI) LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "stacktower",
		Short:         "stacktower assesses npm packages for supply-chain risk",
		Long:          `stacktower retrieves npm registry metadata and the latest release archive for a package, statically inspects both, and produces a weighted risk report covering typosquatting, install-script abuse, obfuscated payloads, maintainer posture, and publish-cadence anomalies.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := c.LoadConfig(configPath); err != nil {
					return err
				}
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.auditCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Orchestrator Factory
// =============================================================================

// newOrchestrator creates an audit Orchestrator backed by a single cache
// instance shared by both the registry-cache and report-cache namespaces;
// the two are kept distinct by key prefix, not by backend.
func (c *CLI) newOrchestrator(noCache bool) (*audit.Orchestrator, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	registryOpts := npm.Options{
		BaseURL:         c.Config.Registry.BaseURL,
		MetadataTimeout: c.Config.Registry.MetadataTimeout,
		ArchiveTimeout:  c.Config.Registry.ArchiveTimeout,
	}
	return audit.NewWithOptions(store, store, c.Logger, registryOpts, c.Config.Cache.RegistryTTL, c.Config.Cache.Tenant), nil
}

// newCache builds the cache backend named by c.Config.Cache.Backend
// ("file", "bbolt", "sqlite", "redis", or "none"), falling back to a file
// cache under the default cache directory when unset.
func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	backend := c.Config.Cache.Backend
	path := c.Config.Cache.Path

	switch backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(c.Config.Cache.URL)
	case "bbolt":
		if path == "" {
			return nil, fmt.Errorf("cache.path is required for the bbolt backend")
		}
		return cache.NewBoltCache(path)
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("cache.path is required for the sqlite backend")
		}
		return cache.NewSQLiteCache(path)
	case "file", "":
		if path == "" {
			dir, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			path = dir
		}
		return cache.NewFileCache(path)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using the XDG standard (~/.cache/stacktower/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
