package scan

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/precommit/pkg/cache"
	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/observability"
)

var (
	specifierPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\brequire(?:\.resolve)?\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
		regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"\n]+)['"]\s*\)`),
		regexp.MustCompile(`\b(?:import|export)\s[^'";]*?\bfrom\s*['"]([^'"\n]+)['"]`),
		regexp.MustCompile(`\bimport\s*['"]([^'"\n]+)['"]`),
	}

	// Only comments that start a line are stripped; a mid-line "/*" is as
	// likely to sit inside a glob string as to open a comment.
	lineComment  = regexp.MustCompile(`(?m)^\s*//.*$`)
	blockComment = regexp.MustCompile(`(?ms)^\s*/\*.*?\*/`)
)

// resolvable are the extensions followed through relative imports.
var resolvable = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true, ".ts": true, ".tsx": true,
}

// Regex extracts import specifiers with regular expressions. It is cheaper
// than esbuild and tolerant of syntax it does not understand, at the cost of
// missing computed or unusual import forms.
type Regex struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRegex creates a regex detective. A nil cache disables caching and a nil
// keyer uses the default.
func NewRegex(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Regex {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Regex{Cache: c, Keyer: keyer, Logger: logger}
}

// Scan implements Scanner.
func (r *Regex) Scan(ctx context.Context, dir string, files []string) (*Usage, error) {
	usage := newUsage()
	visited := make(map[string]bool)
	queue := make([]string, 0, len(files))
	for _, f := range files {
		queue = append(queue, r.rel(dir, f))
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := queue[0]
		queue = queue[1:]
		if visited[file] {
			continue
		}
		visited[file] = true

		specs, err := r.specifiers(ctx, filepath.Join(dir, file))
		if err != nil {
			return nil, err
		}
		usage.Files = append(usage.Files, file)

		for _, spec := range specs {
			if IsRelative(spec) {
				if next, ok := resolveRelative(dir, file, spec); ok && !visited[next] {
					queue = append(queue, next)
				}
				continue
			}
			if name, ok := PackageName(spec); ok {
				usage.add(name, file)
			}
		}
	}

	sort.Strings(usage.Files)
	r.Logger.Debug("regex scan complete", "files", len(usage.Files), "packages", len(usage.Packages))
	return usage, nil
}

// specifiers returns the import specifiers of one file, consulting the cache
// by content hash.
func (r *Regex) specifiers(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scan %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeScanFailed, err, "scan %s", path)
	}

	key := r.Keyer.ImportsKey(RegexDetective, cache.Hash(data))
	if cached, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
		var specs []string
		if json.Unmarshal(cached, &specs) == nil {
			observability.Cache().OnCacheHit(ctx, "imports")
			return specs, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "imports")

	specs := ExtractSpecifiers(string(data))
	if encoded, err := json.Marshal(specs); err == nil {
		if err := r.Cache.Set(ctx, key, encoded, cache.DefaultTTL); err != nil {
			r.Logger.Debug("cache write failed", "file", path, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "imports", len(encoded))
		}
	}
	return specs, nil
}

// ExtractSpecifiers returns the distinct module specifiers referenced by
// source, in order of first appearance.
func ExtractSpecifiers(source string) []string {
	source = blockComment.ReplaceAllString(source, "")
	source = lineComment.ReplaceAllString(source, "")

	type hit struct {
		pos  int
		spec string
	}
	var hits []hit
	for _, re := range specifierPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(source, -1) {
			hits = append(hits, hit{pos: m[2], spec: source[m[2]:m[3]]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[string]bool)
	specs := make([]string, 0, len(hits))
	for _, h := range hits {
		if !seen[h.spec] {
			seen[h.spec] = true
			specs = append(specs, h.spec)
		}
	}
	return specs
}

func (r *Regex) rel(dir, f string) string {
	if filepath.IsAbs(f) {
		if rel, err := filepath.Rel(dir, f); err == nil {
			return rel
		}
	}
	return filepath.Clean(f)
}

// resolveRelative maps a relative specifier from file to a scannable project
// file, the way node resolves files and directory indexes.
func resolveRelative(dir, file, spec string) (string, bool) {
	target := filepath.Join(filepath.Dir(file), filepath.FromSlash(spec))
	if strings.HasPrefix(target, "..") {
		return "", false
	}
	candidates := []string{
		target,
		target + ".js",
		target + ".mjs",
		target + ".cjs",
		filepath.Join(target, "index.js"),
	}
	for _, c := range candidates {
		info, err := os.Stat(filepath.Join(dir, c))
		if err != nil || info.IsDir() {
			continue
		}
		if !resolvable[filepath.Ext(c)] {
			return "", false
		}
		return c, true
	}
	return "", false
}
