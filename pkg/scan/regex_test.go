package scan

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/precommit/pkg/cache"
	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/observability"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestExtractSpecifiers(t *testing.T) {
	source := `import fs from 'fs';
import React from "react";
import { a } from './util';
const _ = require('lodash/fp');
// require('commented')
/*
import nope from 'block-commented';
*/
export { x } from '@babel/core/lib/x';
import 'side-effect';
const lazy = import('dynamic');
const again = require("react");
`
	want := []string{"fs", "react", "./util", "lodash/fp", "@babel/core/lib/x", "side-effect", "dynamic"}
	assert.Equal(t, want, ExtractSpecifiers(source))
}

func TestExtractSpecifiersEmpty(t *testing.T) {
	assert.Empty(t, ExtractSpecifiers("const x = 1;\n"))
}

func TestRegexScanFollowsRelativeImports(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.js":       "const a = require('./lib/a');\nimport React from 'react';\n",
		"lib/a.js":       "require('fs');\nmodule.exports = require('lodash/fp');\n",
		"lib/b/index.js": "require('unreached');\n",
	})

	r := NewRegex(nil, nil, nil)
	usage, err := r.Scan(context.Background(), dir, []string{"index.js"})
	require.NoError(t, err)

	assert.Equal(t, []string{"index.js", filepath.Join("lib", "a.js")}, usage.Files)
	assert.Equal(t, []string{"lodash", "react"}, usage.Names())
	assert.Equal(t, []string{filepath.Join("lib", "a.js")}, usage.Packages["lodash"])
	assert.False(t, usage.Uses("unreached"))
	assert.False(t, usage.Uses("fs"))
}

func TestRegexScanDirectoryIndex(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"main.js":    "require('./b');\n",
		"b/index.js": "require('chalk');\n",
		"outside.js": "require('../escape');\n",
	})

	usage, err := NewRegex(nil, nil, nil).Scan(context.Background(), dir, []string{"main.js", "outside.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("b", "index.js"), "main.js", "outside.js"}, usage.Files)
	assert.True(t, usage.Uses("chalk"))
}

func TestRegexScanAbsolutePaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "require('debug');\n"})

	usage, err := NewRegex(nil, nil, nil).Scan(context.Background(), dir, []string{filepath.Join(dir, "a.js")})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, usage.Files)
	assert.Equal(t, []string{"a.js"}, usage.Packages["debug"])
}

func TestRegexScanMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewRegex(nil, nil, nil).Scan(context.Background(), dir, []string{"gone.js"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
}

func TestRegexScanCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRegex(nil, nil, nil).Scan(ctx, dir, []string{"a.js"})
	assert.ErrorIs(t, err, context.Canceled)
}

type cacheEvents struct {
	mu   sync.Mutex
	hits int
	miss int
	sets int
}

func (c *cacheEvents) OnCacheHit(context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits++
}

func (c *cacheEvents) OnCacheMiss(context.Context, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.miss++
}

func (c *cacheEvents) OnCacheSet(context.Context, string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
}

func TestRegexScanUsesCache(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	events := &cacheEvents{}
	observability.SetCacheHooks(events)

	dir := writeFiles(t, map[string]string{
		"a.js": "require('./b');\nrequire('express');\n",
		"b.js": "require('ms');\n",
	})
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	r := NewRegex(c, nil, nil)
	first, err := r.Scan(context.Background(), dir, []string{"a.js"})
	require.NoError(t, err)
	assert.Equal(t, 2, events.miss)
	assert.Equal(t, 2, events.sets)
	assert.Equal(t, 0, events.hits)

	second, err := r.Scan(context.Background(), dir, []string{"a.js"})
	require.NoError(t, err)
	assert.Equal(t, 2, events.hits)
	assert.Equal(t, first.Packages, second.Packages)
	assert.Equal(t, first.Files, second.Files)
}

func TestRegexScanCacheKeyedByContent(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "require('left-pad');\n"})
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRegex(c, nil, nil)

	_, err = r.Scan(context.Background(), dir, []string{"a.js"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("require('right-pad');\n"), 0o644))
	usage, err := r.Scan(context.Background(), dir, []string{"a.js"})
	require.NoError(t, err)
	assert.Equal(t, []string{"right-pad"}, usage.Names())
}
