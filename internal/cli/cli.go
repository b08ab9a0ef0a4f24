// Package cli implements the precommit command-line interface.
//
// The root command resolves the project's JavaScript files, runs the
// dependency, format and lint checks through [pipeline.Runner], and renders
// the report either as colorized status lines or as a single JSON document.
//
// # Commands
//
//   - precommit [globs...]: run all checks (the default)
//   - cache: manage the import scan cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// Diagnostics go to stderr through charmbracelet/log. Only warnings are
// shown by default; --debug enables per-stage timings and tool invocations.
//
// # Example
//
//	func main() {
//	    c := cli.New(os.Stdout, os.Stderr)
//	    os.Exit(c.Execute(ctx, os.Args[1:]))
//	}
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/precommit/pkg/cache"
	"github.com/matzehuels/precommit/pkg/command"
	"github.com/matzehuels/precommit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "precommit"

// Exit statuses.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer

	// Commands runs eslint and prettier; nil uses the OS.
	Commands command.Runner

	infoShown bool
}

// New creates a new CLI writing reports to stdout and diagnostics to
// stderr.
func New(stdout, stderr io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(stderr, log.WarnLevel),
		Stdout: stdout,
		Stderr: stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.checkCommand()

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		c.infoShown = true
		defaultHelp(cmd, args)
	})
	root.SetOut(c.Stderr)
	root.SetErr(c.Stderr)
	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.Commands, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/precommit/).
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
