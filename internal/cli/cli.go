// Package cli implements the polisher command-line interface.
//
// # Commands
//
//   - apply: style a document with one or more brands
//   - pick: choose brands interactively, then apply them
//   - brands: list, inspect and check the brand presets
//   - validate: report on the quality of an existing document
//   - outline: draw a document's heading hierarchy
//   - runs: inspect recorded runs
//   - serve: run the HTTP API
//   - cache: manage the styled-document cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the CLI value and is also attached to each command's context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polisher/pkg/brand"
	"github.com/matzehuels/polisher/pkg/buildinfo"
	"github.com/matzehuels/polisher/pkg/cache"
	"github.com/matzehuels/polisher/pkg/config"
	"github.com/matzehuels/polisher/pkg/observability"
	"github.com/matzehuels/polisher/pkg/pipeline"
	"github.com/matzehuels/polisher/pkg/quality"
	"github.com/matzehuels/polisher/pkg/reportstore"
)

// appName is the application name used for directories and display.
const appName = "polisher"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	brandsFile string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Polisher restyles word documents with brand themes",
		Long:         `Polisher applies a brand theme to an existing .docx document: fonts, colors, spacing, margins and table formatting follow the brand preset while the content stays untouched. Every styled document is checked by an automated quality validator.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/polisher/config.toml)")
	root.PersistentFlags().StringVar(&c.brandsFile, "brands-file", "", "TOML or YAML file with additional brand presets")

	root.AddCommand(c.applyCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.brandsCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once; flags win over it.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.brandsFile != "" {
		cfg.BrandsFile = c.brandsFile
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "brands_file", cfg.BrandsFile, "parallel", cfg.Parallel)
	return nil
}

// config returns the loaded configuration, or defaults when a command runs
// without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		cfg := &config.Config{BrandsFile: c.brandsFile}
		cfg.SetDefaults()
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) registry() (*brand.Registry, error) {
	return brand.LoadFile(c.config().BrandsFile)
}

func (c *CLI) validator() (*quality.Validator, error) {
	opts, err := c.config().ValidatorOptions()
	if err != nil {
		return nil, err
	}
	return quality.New(opts...), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	reg, err := c.registry()
	if err != nil {
		return nil, err
	}
	v, err := c.validator()
	if err != nil {
		return nil, err
	}
	ch, err := c.newCache(noCache || c.config().NoCache)
	if err != nil {
		return nil, err
	}
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
	}
	r := pipeline.NewRunner(reg, ch, nil, c.Logger)
	r.Validator = v
	return r, nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.Disabled(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.Disabled(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) runStore() (*reportstore.FileStore, error) {
	return reportstore.NewFileStore("")
}

// cacheDir returns the configured cache directory, falling back to the
// user cache location (~/.cache/polisher on Linux).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().CacheDir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}
