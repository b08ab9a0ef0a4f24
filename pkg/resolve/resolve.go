// Package resolve expands glob patterns into the list of project files that
// the checks run over.
//
// Every pattern is expanded concurrently; the first failure cancels the rest
// and is returned without partial results. Matching uses doublestar, so `**`
// and `{a,b}` alternation work as they do in shell globs. Dependency trees
// (node_modules) are never descended into nor returned, whatever the
// patterns say.
package resolve

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/precommit/pkg/errors"
)

// DefaultPatterns is used when no patterns are given.
var DefaultPatterns = []string{
	"bin/*.js",
	"lib/**/*.js",
	"examples/**/*.js",
	"src/**/*.js",
	"test/**/*.js",
	"*.js",
}

// ExcludedDirs are directory names pruned from every expansion.
var ExcludedDirs = []string{"node_modules"}

// Resolver expands patterns relative to a project directory.
type Resolver struct {
	Logger *log.Logger
}

// New creates a Resolver. A nil logger discards output.
func New(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Resolver{Logger: logger}
}

// Resolve expands patterns against dir and returns a sorted, deduplicated
// list of file paths. Paths inside dir are returned relative to it; matches
// of absolute patterns outside dir stay absolute.
func (r *Resolver) Resolve(ctx context.Context, dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	r.Logger.Debug("resolving paths for globs", "patterns", patterns)

	matches := make([][]string, len(patterns))
	g, gctx := errgroup.WithContext(ctx)
	for i, pattern := range patterns {
		i, pattern := i, pattern
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, err := expand(dir, pattern)
			if err != nil {
				return err
			}
			r.Logger.Debug("resolved pattern", "pattern", pattern, "files", len(files))
			matches[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := unique(matches)
	r.Logger.Debug("final result", "files", len(files))
	return files, nil
}

// expand resolves a single pattern.
func expand(dir, pattern string) ([]string, error) {
	p := filepath.ToSlash(pattern)
	base := filepath.ToSlash(dir)
	if path.IsAbs(p) {
		base, p = doublestar.SplitPattern(p)
	}
	p = strings.TrimPrefix(p, "./")
	if p == "" || !doublestar.ValidatePattern(p) {
		return nil, errors.New(errors.ErrCodeInvalidGlob, "invalid glob pattern %q", pattern)
	}

	fsys := pruneFS{FS: os.DirFS(filepath.FromSlash(base))}
	found, err := doublestar.Glob(fsys, p, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGlob, err, "expand %q", pattern)
	}

	out := make([]string, 0, len(found))
	for _, f := range found {
		if excluded(f) {
			continue
		}
		out = append(out, relativeTo(dir, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(f))))
	}
	return out, nil
}

func relativeTo(dir, p string) string {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Clean(p)
	}
	return rel
}

func excluded(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		for _, name := range ExcludedDirs {
			if seg == name {
				return true
			}
		}
	}
	return false
}

func unique(groups [][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range groups {
		for _, f := range group {
			f = filepath.Clean(f)
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	sort.Strings(out)
	return out
}

// pruneFS hides excluded directories from directory listings so `**` never
// walks into them.
type pruneFS struct {
	fs.FS
}

func (p pruneFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := fs.ReadDir(p.FS, name)
	if err != nil {
		return nil, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.IsDir() && excluded(e.Name()) {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}
