// Package format rewrites JavaScript files with Prettier.
//
// Every file is piped through the formatter on stdin; files whose output
// differs are written back in place (or only reported, in dry mode). Files
// are processed concurrently and a failure on one file never stops the
// others.
package format

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/matzehuels/precommit/pkg/command"
	"github.com/matzehuels/precommit/pkg/errors"
)

// Args are the fixed style options passed after --stdin-filepath.
var Args = []string{"--single-quote", "--trailing-comma", "none"}

// Failure records a file that could not be formatted.
type Failure struct {
	File string
	Err  error
}

// Summary is the outcome of formatting a file set. All lists are sorted.
type Summary struct {
	Formatted []string // changed (written, or would be written in dry mode)
	Unchanged []string
	Failures  []Failure
}

// Formatter runs Prettier over files.
type Formatter struct {
	Command     []string // program and leading args, e.g. npx --no-install prettier
	Runner      command.Runner
	Dry         bool // report changes without writing
	Concurrency int  // max files in flight; GOMAXPROCS when zero
	Logger      *log.Logger
}

// New creates a Formatter. A nil runner uses the OS runner.
func New(cmd []string, runner command.Runner, dry bool, logger *log.Logger) *Formatter {
	if runner == nil {
		runner = command.NewRunner()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Formatter{Command: cmd, Runner: runner, Dry: dry, Logger: logger}
}

type fileResult struct {
	file    string
	changed bool
	err     error
}

// Format formats files (relative to dir). Only an unusable command or a
// cancelled context is returned as an error; per-file problems are collected
// in Summary.Failures.
func (f *Formatter) Format(ctx context.Context, dir string, files []string) (*Summary, error) {
	name, args, err := command.Split(f.Command)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "format command")
	}

	workers := f.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	p := pool.NewWithResults[fileResult]().WithMaxGoroutines(workers)
	for _, file := range files {
		file := file
		p.Go(func() fileResult {
			changed, err := f.formatFile(ctx, dir, file, name, args)
			return fileResult{file: file, changed: changed, err: err}
		})
	}
	results := p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{Formatted: []string{}, Unchanged: []string{}, Failures: []Failure{}}
	for _, r := range results {
		switch {
		case r.err != nil:
			summary.Failures = append(summary.Failures, Failure{File: r.file, Err: r.err})
		case r.changed:
			summary.Formatted = append(summary.Formatted, r.file)
		default:
			summary.Unchanged = append(summary.Unchanged, r.file)
		}
	}
	sort.Strings(summary.Formatted)
	sort.Strings(summary.Unchanged)
	sort.Slice(summary.Failures, func(i, j int) bool { return summary.Failures[i].File < summary.Failures[j].File })

	f.Logger.Debug("format complete",
		"formatted", len(summary.Formatted),
		"unchanged", len(summary.Unchanged),
		"failed", len(summary.Failures),
		"dry", f.Dry,
		"duration", time.Since(start).Round(time.Millisecond))
	return summary, nil
}

// formatFile formats one file and reports whether its contents changed.
func (f *Formatter) formatFile(ctx context.Context, dir, file, name string, base []string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, file)
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeFileNotFound, err, "stat %s", file)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeFormatFailed, err, "read %s", file)
	}

	args := append(append([]string(nil), base...), "--stdin-filepath", file)
	args = append(args, Args...)
	out, err := f.Runner.Run(ctx, dir, bytes.NewReader(src), name, args...)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeFormatFailed, err, "format %s", file)
	}
	if out.ExitCode != 0 {
		return false, errors.New(errors.ErrCodeFormatFailed, "format %s: exit status %d%s", file, out.ExitCode, detail(out.Stderr))
	}

	if bytes.Equal(src, out.Stdout) {
		return false, nil
	}
	if f.Dry {
		f.Logger.Debug("would format", "file", file)
		return true, nil
	}
	if err := os.WriteFile(path, out.Stdout, info.Mode().Perm()); err != nil {
		return false, errors.Wrap(errors.ErrCodeFormatFailed, err, "write %s", file)
	}
	f.Logger.Debug("formatted", "file", file)
	return true, nil
}

func detail(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if s == "" {
		return ""
	}
	return fmt.Sprintf(": %s", s)
}
