package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/precommit/pkg/buildinfo"
	"github.com/matzehuels/precommit/pkg/config"
	"github.com/matzehuels/precommit/pkg/observability"
)

// envPrefix is prepended to flag names to form environment variables
// (PRECOMMIT_DIR, PRECOMMIT_NO_CACHE, ...).
const envPrefix = "PRECOMMIT"

// errReported marks an error that has already been printed.
var errReported = errors.New("reported")

// checkOptions holds flags that are not read through viper.
type checkOptions struct {
	version bool
}

// Execute runs the CLI with args and returns the process exit status:
// 0 on success, 1 on failed checks, fatal errors, --help and --version, and
// 130 when ctx was cancelled by an interrupt.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)

	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errReported):
		return ExitFailure
	case err != nil:
		printFatal(c.Stderr, err, false)
		return ExitFailure
	case c.infoShown:
		return ExitFailure
	}
	return ExitOK
}

// checkCommand creates the root command that runs all checks.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOptions
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "precommit [file-glob...]",
		Short: "precommit keeps typos out of your JavaScript projects",
		Long: `precommit checks a JavaScript project before you commit:

  - every package used in code is declared in package.json
  - every declared dependency is actually used
  - every file passes eslint (and optionally prettier)

Globs default to bin/*.js, lib/**/*.js, examples/**/*.js, src/**/*.js,
test/**/*.js and *.js. node_modules is never scanned.`,
		Example: `  # Check the project in the current directory:
  precommit

  # Lint only the lib directory:
  precommit 'lib/**/*.js'

  # Machine-readable output for CI:
  precommit --json --dir ./packages/api`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				if v.GetBool("debug") {
					fmt.Fprintln(c.Stderr, buildinfo.String())
				} else {
					fmt.Fprintln(c.Stderr, buildinfo.Short())
				}
				c.infoShown = true
				return nil
			}
			return c.runChecks(cmd.Context(), v, args)
		},
	}

	flags := cmd.Flags()
	flags.String("dir", "", "directory containing package.json (default: current directory)")
	flags.Bool("json", false, "print the report as JSON")
	flags.Bool("debug", false, "print diagnostic info")
	flags.String("detective", config.DefaultDetective, "import scanner: esbuild or regex")
	flags.Bool("format", false, "format files with prettier before linting")
	flags.Bool("dry", false, "with --format, report files that need formatting without writing")
	flags.Bool("no-cache", false, "disable the import scan cache")
	flags.StringSlice("ignore", nil, "package names to ignore in dependency checks (repeatable)")
	flags.StringSlice("entry", nil, "extra entry files to scan for imports (repeatable)")
	flags.BoolVar(&opts.version, "version", false, "print the version")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return cmd
}

// runChecks builds the configuration, runs the pipeline and prints the
// report.
func (c *CLI) runChecks(ctx context.Context, v *viper.Viper, globs []string) error {
	debug := v.GetBool("debug")
	jsonOut := v.GetBool("json")
	if debug {
		c.SetLogLevel(charmlog.DebugLevel)
	}

	cfg, err := config.New(config.Params{
		Dir:       v.GetString("dir"),
		Globs:     globs,
		JSON:      jsonOut,
		Debug:     debug,
		Detective: v.GetString("detective"),
		Format:    v.GetBool("format"),
		Dry:       v.GetBool("dry"),
		NoCache:   v.GetBool("no-cache"),
		Ignore:    v.GetStringSlice("ignore"),
		Entries:   v.GetStringSlice("entry"),
	})
	if err != nil {
		return c.fatal(err, jsonOut, debug)
	}
	c.Logger.Debug("configuration", "dir", cfg.Dir, "globs", cfg.Globs, "detective", cfg.Detective, "format", cfg.Format)

	defer observability.Reset()
	hooks := logHooks{logger: c.Logger}
	observability.SetCacheHooks(hooks)
	if cfg.JSON {
		observability.SetPipelineHooks(hooks)
	} else {
		printHeader(c.Stdout)
		observability.SetPipelineHooks(observability.ChainPipeline(consoleHooks{out: printer{w: c.Stdout, indent: "  "}}, hooks))
	}

	runner, err := c.newRunner(cfg.NoCache)
	if err != nil {
		return c.fatal(err, cfg.JSON, cfg.Debug)
	}
	defer runner.Cache.Close()

	report, err := runner.Run(ctx, cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return c.fatal(err, cfg.JSON, cfg.Debug)
	}

	if cfg.JSON {
		if err := writeJSON(c.Stdout, report); err != nil {
			return err
		}
	} else {
		printReport(c.Stdout, c.Stderr, report)
	}
	if report.Failed() {
		return errReported
	}
	return nil
}

// fatal prints err in the selected output mode and marks it reported.
func (c *CLI) fatal(err error, jsonOut, debug bool) error {
	if jsonOut {
		if werr := writeJSONError(c.Stdout, err); werr != nil {
			return werr
		}
	} else {
		printFatal(c.Stderr, err, debug)
	}
	return fmt.Errorf("%w: %v", errReported, err)
}
