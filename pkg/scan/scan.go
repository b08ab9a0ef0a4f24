// Package scan discovers which npm packages a set of JavaScript files uses.
//
// A [Scanner] ("detective") starts from a list of files, follows relative
// imports to reach the rest of the project, and reports every bare package
// specifier it meets, reduced to its package name. Node builtins, URLs and
// paths are not packages and are dropped.
//
// Two detectives are available:
//   - esbuild: parses with the esbuild bundler API (accurate, ES/CJS/JSX/TS)
//   - regex: regular-expression extraction with a per-file content cache
package scan

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precommit/pkg/cache"
	"github.com/matzehuels/precommit/pkg/errors"
)

// Detective names.
const (
	ESBuildDetective = "esbuild"
	RegexDetective   = "regex"
)

// Usage is the result of a scan.
type Usage struct {
	// Packages maps each used package name to the files importing it.
	Packages map[string][]string

	// Files lists every scanned file, including those reached through
	// relative imports, relative to the project directory.
	Files []string
}

func newUsage() *Usage {
	return &Usage{Packages: make(map[string][]string)}
}

func (u *Usage) add(pkg, file string) {
	for _, f := range u.Packages[pkg] {
		if f == file {
			return
		}
	}
	u.Packages[pkg] = append(u.Packages[pkg], file)
}

// Uses reports whether pkg was referenced anywhere.
func (u *Usage) Uses(pkg string) bool {
	_, ok := u.Packages[pkg]
	return ok
}

// Names returns the used package names, sorted.
func (u *Usage) Names() []string {
	names := make([]string, 0, len(u.Packages))
	for name := range u.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named detective. The cache is only used by detectives that
// scan file by file; pass nil to disable caching.
func New(detective string, c cache.Cache, logger *log.Logger) (Scanner, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	switch detective {
	case "", ESBuildDetective:
		return &ESBuild{Logger: logger}, nil
	case RegexDetective:
		return NewRegex(c, nil, logger), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown detective %q (must be one of: esbuild, regex)", detective)
	}
}
