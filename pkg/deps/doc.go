// Package deps compares a project's package.json declarations against the
// packages its code actually uses.
//
// # Modes
//
// A [Checker] answers three questions, one per [Mode]:
//
//   - [Missing]: packages used in code but not declared anywhere
//   - [Extra]: dependencies declared but never used
//   - [ExtraDev]: devDependencies declared but never used
//
// The first two are check failures; ExtraDev is advisory, since dev tooling
// is often invoked from scripts rather than imported.
//
// # Usage
//
//	checker := deps.NewChecker(deps.Options{
//	    Dir:     dir,
//	    Files:   files,
//	    Scanner: scanner,
//	})
//	res, err := checker.Check(ctx, deps.Missing)
//	if err != nil {
//	    return err // manifest or scan failure
//	}
//	if !res.Empty() {
//	    fmt.Println(res.Title())
//	    fmt.Println(res.Fix())
//	}
//
// The manifest is loaded and the project scanned on the first call to
// [Checker.Check]; later modes reuse the same scan.
package deps
