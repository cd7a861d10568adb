// Package cli implements the seqdraw command-line interface.
//
// # Commands
//
//   - parse: read DSL or model JSON and print the normalized model
//   - render: render one or more diagrams to SVG, JSON, PNG, PDF, DSL or DOT
//   - watch: re-render a file every time it is saved
//   - inspect: step through a diagram's messages in the terminal
//   - serve: run the HTTP preview service
//   - config: show and edit persisted preferences
//   - cache: show and clear the local artifact cache
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdraw/pkg/buildinfo"
	"github.com/matzehuels/seqdraw/pkg/cache"
	"github.com/matzehuels/seqdraw/pkg/config"
	"github.com/matzehuels/seqdraw/pkg/errors"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
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
		Use:   "seqdraw",
		Short: "seqdraw renders sequence diagrams from a small text language",
		Long: `seqdraw turns a line-oriented sequence diagram language into SVG.

  title: Login
  participant U as User
  U->>API: 1. credentials
  API-->>U: token`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seqdraw/config.toml)")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner
// =============================================================================

// resolveConfigPath returns the --config flag or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file and applies key=value overrides.
func (c *CLI) loadConfig(overrides []string) (config.Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return config.Default(), err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	values, err := parseAssignments(overrides)
	if err != nil {
		return cfg, err
	}
	if err := cfg.SetAll(values); err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", path, "overrides", len(values))
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseAssignments splits key=value pairs from repeated --set flags.
func parseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "expected key=value, got %q", p)
		}
		values[strings.TrimSpace(key)] = value
	}
	return values, nil
}
