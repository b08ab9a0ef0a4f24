package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/scan"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newChecker(dir string, files ...string) *Checker {
	return NewChecker(Options{
		Dir:     dir,
		Files:   files,
		Scanner: scan.NewRegex(nil, nil, nil),
	})
}

func TestCheckMissing(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{"name": "app", "dependencies": {"async": "^3.0.0"}}`,
		"lib/a.js":     "var async = require('async');\nvar _ = require('lodash');\nvar b = require('@scope/pkg/deep');\n",
	})

	res, err := newChecker(dir, "lib/a.js").Check(context.Background(), Missing)
	require.NoError(t, err)

	assert.Equal(t, []string{"@scope/pkg", "lodash"}, res.Packages)
	assert.Equal(t, "2 dependencies|devDependencies missing from package.json", res.Title())
	assert.Equal(t, "npm install --save @scope/pkg;\nnpm install --save lodash;", res.Fix())
}

func TestCheckMissingDevDependencySatisfies(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{"name": "app", "devDependencies": {"chai": "*"}}`,
		"test/a.js":    "const chai = require('chai');",
	})

	res, err := newChecker(dir, "test/a.js").Check(context.Background(), Missing)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, "", res.Fix())
}

func TestCheckExtra(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{
			"name": "app",
			"dependencies": {"async": "*", "debug": "*", "lodash": "*"},
			"devDependencies": {"mocha": "*"}
		}`,
		"index.js": "require('async');",
	})

	res, err := newChecker(dir).Check(context.Background(), Extra)
	require.NoError(t, err)

	assert.Equal(t, []string{"debug", "lodash"}, res.Packages)
	assert.Equal(t, "2 dependencies in package.json are not used in code", res.Title())
	assert.Equal(t, "npm uninstall --save debug lodash;", res.Fix())
}

func TestCheckExtraDev(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{
			"name": "app",
			"scripts": {"test": "mocha test/"},
			"devDependencies": {"mocha": "*", "sinon": "*", "chai": "*", "eslint": "*"}
		}`,
		"test/a.js": "require('chai');",
	})

	res, err := newChecker(dir, "test/a.js").Check(context.Background(), ExtraDev)
	require.NoError(t, err)

	assert.Equal(t, []string{"sinon"}, res.Packages)
	assert.True(t, res.Mode.Advisory())
	assert.Equal(t, "1 potentially unused devDependencies", res.Title())
	assert.Equal(t, "npm uninstall --save-dev sinon;", res.Fix())
}

func TestCheckIgnore(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{
			"name": "app",
			"dependencies": {"unused-a": "*", "unused-b": "*"},
			"dependency-check": {"ignore": ["unused-a"]}
		}`,
		"index.js": "require('undeclared');",
	})

	c := NewChecker(Options{
		Dir:     dir,
		Ignore:  []string{"unused-b", "undeclared"},
		Scanner: scan.NewRegex(nil, nil, nil),
	})

	missing, err := c.Check(context.Background(), Missing)
	require.NoError(t, err)
	assert.True(t, missing.Empty())

	extra, err := c.Check(context.Background(), Extra)
	require.NoError(t, err)
	assert.True(t, extra.Empty())
}

func TestCheckOwnNameNeverMissing(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json":  `{"name": "my-lib"}`,
		"examples/x.js": "require('my-lib');",
	})

	res, err := newChecker(dir, "examples/x.js").Check(context.Background(), Missing)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestCheckEntriesAndRelativeImports(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{
			"name": "app",
			"dependencies": {"debug": "*"},
			"dependency-check": {"entries": ["scripts/run.js"]}
		}`,
		"scripts/run.js":    "require('./helper');",
		"scripts/helper.js": "module.exports = require('debug');",
	})

	res, err := newChecker(dir).Check(context.Background(), Extra)
	require.NoError(t, err)
	assert.True(t, res.Empty(), "debug is reached through an entry: %v", res.Packages)
}

func TestCheckScansOnce(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{"name": "app"}`,
		"index.js":     "",
	})
	counter := &countingScanner{inner: scan.NewRegex(nil, nil, nil)}
	c := NewChecker(Options{Dir: dir, Scanner: counter})

	for _, mode := range Modes {
		_, err := c.Check(context.Background(), mode)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, counter.calls)
}

func TestCheckMissingManifest(t *testing.T) {
	dir := t.TempDir()

	_, err := newChecker(dir).Check(context.Background(), Missing)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidManifest, errors.GetCode(err))
}

func TestCheckScanFailure(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json": `{"name": "app"}`,
	})

	_, err := newChecker(dir, "lib/gone.js").Check(context.Background(), Missing)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
}

type countingScanner struct {
	inner scan.Scanner
	calls int
}

func (s *countingScanner) Scan(ctx context.Context, dir string, files []string) (*scan.Usage, error) {
	s.calls++
	return s.inner.Scan(ctx, dir, files)
}
