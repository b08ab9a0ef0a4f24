// Package manifest loads package.json and derives the inputs of the
// dependency checks: declared dependency sets, scan entry points, and the
// ignore list.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/precommit/pkg/errors"
)

// Filename is the manifest file looked up in the project directory.
const Filename = "package.json"

// ConfigKey is the manifest block holding DependencyCheckConfig.
const ConfigKey = "dependency-check"

// ToolName is the npm package name precommit is published under.
const ToolName = "precommit"

// BuiltinIgnores are companion tools that are installed as devDependencies
// but invoked by precommit itself rather than required from code.
var BuiltinIgnores = []string{
	ToolName,
	"pre-commit",
	"eslint",
	"prettier",
}

// TestRunners are ignored when scripts.test invokes them and they are
// declared as devDependencies.
var TestRunners = []string{"mocha", "jest", "ava", "tap", "vitest"}

// DependencyCheckConfig is the "dependency-check" manifest block.
type DependencyCheckConfig struct {
	Entries []string `json:"entries"`
	Ignore  []string `json:"ignore"`
}

// Manifest is the subset of package.json precommit reads.
type Manifest struct {
	Name                 string                `json:"name"`
	Version              string                `json:"version"`
	Main                 string                `json:"main"`
	Dependencies         map[string]string     `json:"dependencies"`
	DevDependencies      map[string]string     `json:"devDependencies"`
	PeerDependencies     map[string]string     `json:"peerDependencies"`
	OptionalDependencies map[string]string     `json:"optionalDependencies"`
	Scripts              map[string]string     `json:"scripts"`
	DependencyCheck      DependencyCheckConfig `json:"dependency-check"`

	// Path is the absolute path the manifest was read from.
	Path string `json:"-"`
}

// Load reads dir/package.json. A missing or malformed manifest is an
// INVALID_MANIFEST error.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, Filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "no %s in %s", Filename, dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return Parse(path, data)
}

// Parse decodes manifest bytes and applies defaults for absent blocks.
func Parse(path string, data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	m.Path = path
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]string{}
	}
	if m.PeerDependencies == nil {
		m.PeerDependencies = map[string]string{}
	}
	if m.OptionalDependencies == nil {
		m.OptionalDependencies = map[string]string{}
	}
	if m.Scripts == nil {
		m.Scripts = map[string]string{}
	}
	if m.DependencyCheck.Entries == nil {
		m.DependencyCheck.Entries = []string{}
	}
	if m.DependencyCheck.Ignore == nil {
		m.DependencyCheck.Ignore = []string{}
	}
	return &m, nil
}

// Dir returns the project directory containing the manifest.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// Declared reports whether name appears in any dependency list.
func (m *Manifest) Declared(name string) bool {
	for _, deps := range []map[string]string{
		m.Dependencies, m.DevDependencies, m.PeerDependencies, m.OptionalDependencies,
	} {
		if _, ok := deps[name]; ok {
			return true
		}
	}
	return false
}

// IsDevDependency reports whether name is a declared devDependency.
func (m *Manifest) IsDevDependency(name string) bool {
	_, ok := m.DevDependencies[name]
	return ok
}

// Ignore returns the full ignore set: the manifest block, extra (from
// configuration), BuiltinIgnores, and any test runner that scripts.test
// invokes and that is declared as a devDependency.
func (m *Manifest) Ignore(extra []string) map[string]bool {
	ignore := make(map[string]bool)
	for _, list := range [][]string{m.DependencyCheck.Ignore, extra, BuiltinIgnores} {
		for _, name := range list {
			ignore[name] = true
		}
	}
	words := commandWords(m.Scripts["test"])
	for _, runner := range TestRunners {
		if words[runner] && m.IsDevDependency(runner) {
			ignore[runner] = true
		}
	}
	return ignore
}

// commandWords splits a package.json script into its words, reducing paths
// such as node_modules/.bin/mocha to their base name.
func commandWords(script string) map[string]bool {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '&', '|', ';', '(', ')', '"', '\'':
			return true
		}
		return false
	})
	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[filepath.Base(filepath.FromSlash(f))] = true
	}
	return words
}

// Entries returns the scan entry points relative to the project directory:
// the manifest block, extra (from configuration), and "main" when that file
// exists. Entries are validated to stay inside the project.
func (m *Manifest) Entries(extra []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) error {
		if err := errors.ValidatePath(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s entry %q", ConfigKey, p)
		}
		p = filepath.Clean(filepath.FromSlash(p))
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
		return nil
	}

	for _, list := range [][]string{m.DependencyCheck.Entries, extra} {
		for _, p := range list {
			if err := add(p); err != nil {
				return nil, err
			}
		}
	}
	if main := mainFile(m.Dir(), m.Main); main != "" {
		if err := add(main); err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

// mainFile resolves the "main" field the way node does for the common cases,
// returning "" when nothing exists on disk.
func mainFile(dir, main string) string {
	if main == "" {
		main = "index.js"
	}
	main = strings.TrimPrefix(filepath.ToSlash(main), "./")
	if errors.ValidatePath(main) != nil {
		return ""
	}
	for _, candidate := range []string{main, main + ".js", strings.TrimSuffix(main, "/") + "/index.js"} {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(candidate)))
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
