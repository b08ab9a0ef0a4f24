package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precommit/pkg/command"
	"github.com/matzehuels/precommit/pkg/errors"
)

// Linter invokes ESLint as an external process.
type Linter struct {
	Command []string // program and leading args, e.g. npx --no-install eslint
	Runner  command.Runner
	Logger  *log.Logger
}

// New creates a Linter. A nil runner uses the OS runner.
func New(cmd []string, runner command.Runner, logger *log.Logger) *Linter {
	if runner == nil {
		runner = command.NewRunner()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Linter{Command: cmd, Runner: runner, Logger: logger}
}

// Lint runs ESLint on files (relative to dir) and parses its JSON output.
//
// ESLint exits 1 when it found errors; that is a normal report. Any other
// non-zero exit, a missing binary or unreadable output is a LINT_FAILED
// error. An empty file list returns an empty report without running ESLint.
func (l *Linter) Lint(ctx context.Context, dir string, files []string) (*Report, error) {
	if len(files) == 0 {
		return newReport(nil), nil
	}

	name, args, err := command.Split(l.Command)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "lint command")
	}
	args = append(args, "--format", "json")
	args = append(args, files...)

	l.Logger.Debug("running eslint", "command", name, "files", len(files))
	start := time.Now()
	out, err := l.Runner.Run(ctx, dir, nil, name, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeLintFailed, err, "run eslint")
	}
	l.Logger.Debug("eslint finished", "exit", out.ExitCode, "duration", time.Since(start).Round(time.Millisecond))

	if out.ExitCode != 0 && out.ExitCode != 1 {
		return nil, errors.New(errors.ErrCodeLintFailed, "eslint exited with status %d%s", out.ExitCode, stderrSuffix(out.Stderr))
	}

	var results []FileResult
	if err := json.Unmarshal(out.Stdout, &results); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLintFailed, err, "parse eslint output%s", stderrSuffix(out.Stderr))
	}
	report := newReport(results)
	l.Logger.Debug("eslint report", "errors", report.ErrorCount, "warnings", report.WarningCount)
	return report, nil
}

func stderrSuffix(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	return fmt.Sprintf(": %s", s)
}
