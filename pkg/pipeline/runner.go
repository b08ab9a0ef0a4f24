package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precommit/pkg/buildinfo"
	"github.com/matzehuels/precommit/pkg/cache"
	"github.com/matzehuels/precommit/pkg/command"
	"github.com/matzehuels/precommit/pkg/config"
	"github.com/matzehuels/precommit/pkg/deps"
	"github.com/matzehuels/precommit/pkg/format"
	"github.com/matzehuels/precommit/pkg/lint"
	"github.com/matzehuels/precommit/pkg/observability"
	"github.com/matzehuels/precommit/pkg/resolve"
	"github.com/matzehuels/precommit/pkg/scan"
)

// Runner executes the check pipeline for a configuration.
//
// The Runner holds no per-run state; each call to Run builds its own stages,
// so the same Runner may be reused.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Commands command.Runner
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil command
// runner uses the OS. Cache keys are scoped to the build version, so entries
// written by another release are never read.
func NewRunner(c cache.Cache, commands command.Runner, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if commands == nil {
		commands = command.NewRunner()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":"),
		Commands: commands,
		Logger:   logger,
	}
}

// stage is one step of the pipeline. describe is evaluated just before the
// stage runs, so it can mention the resolved file count.
type stage struct {
	name     string
	check    bool // counts towards Report.Checks
	passed   string
	describe func() string
	run      func(ctx context.Context) (Outcome, error)
}

// Run executes every stage in order and returns the aggregated report. A
// stage error aborts the run and is returned; findings never do.
func (r *Runner) Run(ctx context.Context, cfg config.Config) (*Report, error) {
	report := newReport()
	stages, err := r.stages(cfg, report)
	if err != nil {
		return nil, err
	}
	for _, s := range stages {
		if s.check {
			report.Checks++
		}
	}

	hooks := observability.Pipeline()
	start := time.Now()
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		desc := s.describe()
		hooks.OnStageStart(ctx, s.name, desc)
		r.Logger.Debug("stage started", "stage", s.name)

		stageStart := time.Now()
		outcome, err := s.run(ctx)
		elapsed := time.Since(stageStart)

		summary := observability.StageSummary{Passed: s.passed}
		for _, f := range outcome.Errors {
			summary.Errors = append(summary.Errors, f.Title)
		}
		for _, f := range outcome.Warnings {
			summary.Warnings = append(summary.Warnings, f.Title)
		}
		hooks.OnStageComplete(ctx, s.name, summary, elapsed, err)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		report.merge(outcome)
		r.Logger.Debug("stage complete",
			"stage", s.name,
			"errors", len(outcome.Errors),
			"warnings", len(outcome.Warnings),
			"duration", elapsed.Round(time.Millisecond))
	}

	r.Logger.Debug("pipeline complete",
		"files", len(report.Files),
		"errors", len(report.Result.Errors),
		"warnings", len(report.Result.Warnings),
		"duration", time.Since(start).Round(time.Millisecond))
	return report, nil
}

// stages builds the ordered stage list for cfg. Later stages read the file
// list the resolve stage stores in report.
func (r *Runner) stages(cfg config.Config, report *Report) ([]stage, error) {
	c := r.Cache
	if cfg.NoCache {
		c = cache.NewNullCache()
	}
	scanner, err := r.scanner(cfg.Detective, c)
	if err != nil {
		return nil, err
	}

	resolver := resolve.New(r.Logger)
	var checker *deps.Checker

	stages := []stage{{
		name:     StageResolve,
		describe: func() string { return fmt.Sprintf("Resolving files for %d pattern(s)", len(cfg.Globs)) },
		passed:   "Files resolved",
		run: func(ctx context.Context) (Outcome, error) {
			files, err := resolver.Resolve(ctx, cfg.Dir, cfg.Globs)
			if err != nil {
				return Outcome{}, err
			}
			checker = deps.NewChecker(deps.Options{
				Dir:     cfg.Dir,
				Files:   files,
				Ignore:  cfg.Ignore,
				Entries: cfg.Entries,
				Scanner: scanner,
				Logger:  r.Logger,
			})
			return Outcome{Files: files}, nil
		},
	}}

	for _, mode := range deps.Modes {
		mode := mode
		stages = append(stages, stage{
			name:     string(mode),
			check:    !mode.Advisory(),
			passed:   mode.Passed(),
			describe: mode.Description,
			run: func(ctx context.Context) (Outcome, error) {
				res, err := checker.Check(ctx, mode)
				if err != nil {
					return Outcome{}, err
				}
				return depsOutcome(res), nil
			},
		})
	}

	if cfg.Format {
		formatter := format.New(cfg.FormatCommand, r.Commands, cfg.Dry, r.Logger)
		stages = append(stages, stage{
			name:  StageFormat,
			check: true,
			describe: func() string {
				if cfg.Dry {
					return fmt.Sprintf("Checking formatting of %d files", len(report.Files))
				}
				return fmt.Sprintf("Formatting %d files", len(report.Files))
			},
			passed: "All files formatted",
			run: func(ctx context.Context) (Outcome, error) {
				summary, err := formatter.Format(ctx, cfg.Dir, report.Files)
				if err != nil {
					return Outcome{}, err
				}
				return formatOutcome(summary, cfg.Dry), nil
			},
		})
	}

	linter := lint.New(cfg.LintCommand, r.Commands, r.Logger)
	stages = append(stages, stage{
		name:     StageLint,
		check:    true,
		describe: func() string { return fmt.Sprintf("Running eslint on %d files", len(report.Files)) },
		passed:   "No errors found by eslint",
		run: func(ctx context.Context) (Outcome, error) {
			rep, err := linter.Lint(ctx, cfg.Dir, report.Files)
			if err != nil {
				return Outcome{}, err
			}
			return lintOutcome(rep), nil
		},
	})
	return stages, nil
}

func (r *Runner) scanner(detective string, c cache.Cache) (scan.Scanner, error) {
	if detective == scan.RegexDetective {
		return scan.NewRegex(c, r.Keyer, r.Logger), nil
	}
	return scan.New(detective, c, r.Logger)
}
