// Package pkg provides the libraries behind the precommit quality gate.
//
// # Overview
//
// precommit keeps a JavaScript project honest before each commit: every
// package the code imports is declared in package.json, every declared
// dependency is used, and every file passes ESLint (and optionally
// Prettier). The pkg directory is organized into three areas:
//
//  1. Checks - [resolve], [scan], [deps], [format], [lint]
//  2. Orchestration - [pipeline], [config], [observability]
//  3. Infrastructure - [cache], [command], [errors], [manifest], [buildinfo]
//
// # Architecture
//
// The data flow of one run:
//
//	glob patterns
//	     ↓
//	[resolve] (file list)
//	     ↓
//	[scan] + [manifest] → [deps] (missing / extra / extra-dev)
//	     ↓
//	[format] (optional, prettier)
//	     ↓
//	[lint] (eslint)
//	     ↓
//	[pipeline.Report] → console or JSON
//
// # Quick Start
//
//	cfg, err := config.New(config.Params{Dir: "."})
//	if err != nil {
//	    return err
//	}
//	report, err := pipeline.NewRunner(nil, nil, logger).Run(ctx, cfg)
//	if err != nil {
//	    return err // fatal: bad manifest, glob or tool failure
//	}
//	if err := report.Err(); err != nil {
//	    fmt.Println(err) // "1 of 3 check(s) failed: ..."
//	}
//
// # Main Packages
//
// [resolve] - Expands glob patterns (doublestar) concurrently, excluding
// node_modules.
//
// [scan] - Finds the npm packages a file set imports. The esbuild detective
// parses with the esbuild Go API; the regex detective is a lighter fallback
// with a per-file content cache.
//
// [deps] - Compares scanned usage with package.json declarations.
//
// [format] and [lint] - Drive Prettier and ESLint as external processes
// through [command].
//
// [pipeline] - Runs the stages in order and folds their findings into a
// single pass/fail report.
//
// [resolve]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/resolve
// [scan]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/scan
// [deps]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/deps
// [format]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/format
// [lint]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/lint
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/pipeline
// [pipeline.Report]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/pipeline#Report
// [config]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/observability
// [cache]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/cache
// [command]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/command
// [errors]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/errors
// [manifest]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/manifest
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/precommit/pkg/buildinfo
package pkg
