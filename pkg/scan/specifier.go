package scan

import (
	"strings"

	"github.com/matzehuels/precommit/pkg/errors"
)

// builtins are the node core modules. Subpaths (fs/promises) are covered by
// checking the first path segment.
var builtins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "wasi": true,
	"worker_threads": true, "zlib": true,
}

// IsBuiltin reports whether spec names a node core module.
func IsBuiltin(spec string) bool {
	if strings.HasPrefix(spec, "node:") {
		return true
	}
	first, _, _ := strings.Cut(spec, "/")
	return builtins[first]
}

// IsRelative reports whether spec is a path import rather than a package.
func IsRelative(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		strings.HasPrefix(spec, "/")
}

// PackageName reduces an import specifier to the npm package it refers to:
// "lodash/fp" is "lodash", "@babel/core/lib/x" is "@babel/core". It returns
// false for builtins, paths, URLs and anything that is not a valid name.
func PackageName(spec string) (string, bool) {
	if i := strings.LastIndex(spec, "!"); i >= 0 {
		spec = spec[i+1:]
	}
	spec = strings.TrimSpace(spec)
	if spec == "" || IsRelative(spec) || IsBuiltin(spec) || strings.Contains(spec, ":") {
		return "", false
	}

	parts := strings.SplitN(spec, "/", 3)
	name := parts[0]
	if strings.HasPrefix(name, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return "", false
		}
		name = parts[0] + "/" + parts[1]
	}

	if errors.ValidateNpmPackageName(name) != nil {
		return "", false
	}
	return name, true
}
