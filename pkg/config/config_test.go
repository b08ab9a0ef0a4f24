package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/resolve"
)

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFile), []byte(content), 0o644))
	return dir
}

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(Params{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, resolve.DefaultPatterns, cfg.Globs)
	assert.Equal(t, DetectiveESBuild, cfg.Detective)
	assert.Equal(t, DefaultLintCommand, cfg.LintCommand)
	assert.Equal(t, DefaultFormatCommand, cfg.FormatCommand)
	assert.False(t, cfg.Format)
	assert.False(t, cfg.Dry)
	assert.Empty(t, cfg.Ignore)
	assert.Empty(t, cfg.Entries)
}

func TestNewRelativeDir(t *testing.T) {
	cfg, err := New(Params{Dir: "."})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Dir))
}

func TestNewParams(t *testing.T) {
	cfg, err := New(Params{
		Dir:       t.TempDir(),
		Globs:     []string{"src/**/*.js"},
		JSON:      true,
		Detective: DetectiveRegex,
		Format:    true,
		Dry:       true,
		Ignore:    []string{"webpack", "@babel/core"},
		Entries:   []string{"webpack.config.js"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.js"}, cfg.Globs)
	assert.True(t, cfg.JSON)
	assert.Equal(t, DetectiveRegex, cfg.Detective)
	assert.True(t, cfg.Format)
	assert.True(t, cfg.Dry)
	assert.Equal(t, []string{"webpack", "@babel/core"}, cfg.Ignore)
	assert.Equal(t, []string{"webpack.config.js"}, cfg.Entries)
}

func TestNewMergesProjectFile(t *testing.T) {
	dir := writeProjectFile(t, `
[deps]
ignore = ["husky", "webpack"]
entries = ["scripts/build.js"]

[lint]
command = ["node_modules/.bin/eslint", "--no-eslintrc"]

[format]
enabled = true
`)

	cfg, err := New(Params{Dir: dir, Ignore: []string{"webpack", "lerna"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"webpack", "lerna", "husky"}, cfg.Ignore)
	assert.Equal(t, []string{"scripts/build.js"}, cfg.Entries)
	assert.Equal(t, []string{"node_modules/.bin/eslint", "--no-eslintrc"}, cfg.LintCommand)
	assert.Equal(t, DefaultFormatCommand, cfg.FormatCommand)
	assert.True(t, cfg.Format)
}

func TestNewProjectFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[deps\nignore = 1", "parse precommit.toml"},
		{"unknown key", "[deps]\nignores = [\"x\"]\n", `unknown key "deps.ignores"`},
		{"wrong type", "[deps]\nignore = \"x\"\n", "parse precommit.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Params{Dir: writeProjectFile(t, tt.content)})
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		params func(dir string) Params
		want   string
	}{
		{
			name:   "missing dir",
			params: func(dir string) Params { return Params{Dir: filepath.Join(dir, "nope")} },
			want:   "is not a directory",
		},
		{
			name:   "detective",
			params: func(dir string) Params { return Params{Dir: dir, Detective: "precinct"} },
			want:   "detective must be one of: esbuild, regex",
		},
		{
			name:   "ignore",
			params: func(dir string) Params { return Params{Dir: dir, Ignore: []string{"../etc"}} },
			want:   `ignore entry "../etc" is not a valid package name`,
		},
		{
			name:   "entry",
			params: func(dir string) Params { return Params{Dir: dir, Entries: []string{"/etc/passwd"}} },
			want:   `entry "/etc/passwd" must be a relative path inside the project`,
		},
		{
			name:   "empty glob",
			params: func(dir string) Params { return Params{Dir: dir, Globs: []string{"src/*.js", ""}} },
			want:   "globs[1] is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params(t.TempDir()))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadProjectMissing(t *testing.T) {
	p, err := LoadProject(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Project{}, p)
}
