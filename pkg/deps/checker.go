package deps

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precommit/pkg/manifest"
	"github.com/matzehuels/precommit/pkg/scan"
)

// Options configures a [Checker].
type Options struct {
	Dir     string       // project directory holding package.json
	Files   []string     // resolved source files, relative to Dir
	Ignore  []string     // extra package names to ignore
	Entries []string     // extra entry files to scan
	Scanner scan.Scanner // detective; required
	Logger  *log.Logger
}

// Checker runs dependency checks for one project. It is not safe for
// concurrent use.
type Checker struct {
	opts Options

	loaded   bool
	loadErr  error
	manifest *manifest.Manifest
	ignore   map[string]bool
	usage    *scan.Usage
}

// NewChecker returns a Checker for opts.
func NewChecker(opts Options) *Checker {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Checker{opts: opts}
}

// Check runs the comparison for mode. Manifest and scan failures are
// returned as errors; findings are returned in the Result.
func (c *Checker) Check(ctx context.Context, mode Mode) (*Result, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}

	var names []string
	switch mode {
	case Missing:
		names = c.missing()
	case Extra:
		names = c.unused(c.manifest.Dependencies)
	case ExtraDev:
		names = c.unused(c.manifest.DevDependencies)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	sort.Strings(names)

	c.opts.Logger.Debug("dependency check", "mode", mode, "found", len(names))
	return &Result{Mode: mode, Packages: names}, nil
}

func (c *Checker) load(ctx context.Context) error {
	if c.loaded {
		return c.loadErr
	}
	c.loaded = true
	c.loadErr = c.doLoad(ctx)
	return c.loadErr
}

func (c *Checker) doLoad(ctx context.Context) error {
	if c.opts.Scanner == nil {
		return fmt.Errorf("deps: no scanner configured")
	}

	m, err := manifest.Load(c.opts.Dir)
	if err != nil {
		return err
	}
	entries, err := m.Entries(c.opts.Entries)
	if err != nil {
		return err
	}

	files := mergeFiles(c.opts.Files, entries)
	c.opts.Logger.Debug("scanning for dependency usage", "files", len(files), "entries", len(entries))

	start := time.Now()
	usage, err := c.opts.Scanner.Scan(ctx, c.opts.Dir, files)
	if err != nil {
		return fmt.Errorf("scan dependencies: %w", err)
	}
	c.opts.Logger.Debug("scan complete",
		"packages", len(usage.Packages),
		"files", len(usage.Files),
		"duration", time.Since(start))

	c.manifest = m
	c.usage = usage
	c.ignore = m.Ignore(c.opts.Ignore)
	if m.Name != "" {
		c.ignore[m.Name] = true
	}
	return nil
}

func (c *Checker) missing() []string {
	var out []string
	for _, name := range c.usage.Names() {
		if c.ignore[name] || c.manifest.Declared(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (c *Checker) unused(declared map[string]string) []string {
	var out []string
	for name := range declared {
		if c.ignore[name] || c.usage.Uses(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func mergeFiles(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, f := range list {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	sort.Strings(out)
	return out
}
