// Package pipeline runs the precommit checks and aggregates their findings.
//
// # Stages
//
// A run is a fixed sequence of stages executed one after another:
//
//  1. resolve: expand the glob patterns into a file list
//  2. missing: packages used in code but not declared in package.json
//  3. extra: dependencies declared but not used
//  4. extra-dev: devDependencies declared but not used (advisory)
//  5. format: Prettier over every file (only when enabled)
//  6. lint: ESLint over every file
//
// Each stage returns an [Outcome] that the runner folds into the [Report].
// Findings never stop the pipeline; a stage error does, and is returned as
// is from [Runner.Run].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	report, err := runner.Run(ctx, cfg)
//	if err != nil {
//	    return err // fatal: bad manifest, glob or tool failure
//	}
//	if err := report.Err(); err != nil {
//	    fmt.Fprintln(os.Stderr, err) // one or more checks failed
//	}
package pipeline

import (
	"fmt"
	"strings"

	"github.com/matzehuels/precommit/pkg/lint"
)

// Stage names.
const (
	StageResolve  = "resolve"
	StageMissing  = "missing"
	StageExtra    = "extra"
	StageExtraDev = "extra-dev"
	StageFormat   = "format"
	StageLint     = "lint"
)

// DocsURL is linked from dependency findings.
const DocsURL = "https://github.com/matzehuels/precommit#configuration"

// Finding is one error or warning recorded by a check.
type Finding struct {
	Check   string `json:"check"`
	Title   string `json:"title"`
	Message string `json:"message"` // first line repeats Title
	Fix     string `json:"fix,omitempty"`
}

// Outcome is what a single stage contributes to the report.
type Outcome struct {
	Errors   []Finding
	Warnings []Finding

	Files     []string     // set by the resolve stage
	Lint      *lint.Report // set by the lint stage
	Formatted []string     // set by the format stage
	Unchanged []string     // set by the format stage
}

// Result accumulates the outcomes of all stages.
type Result struct {
	Errors    []Finding         `json:"errors"`
	Warnings  []Finding         `json:"warnings"`
	Lint      []lint.FileResult `json:"eslint"`
	Formatted []string          `json:"formatted"`
	Unchanged []string          `json:"unchanged"`
}

// Report is the outcome of a complete run.
type Report struct {
	Files  []string `json:"files"`
	Checks int      `json:"checks"` // number of checks that can fail the run
	Result Result   `json:"result"`
}

func newReport() *Report {
	return &Report{
		Files: []string{},
		Result: Result{
			Errors:    []Finding{},
			Warnings:  []Finding{},
			Lint:      []lint.FileResult{},
			Formatted: []string{},
			Unchanged: []string{},
		},
	}
}

// merge folds o into the report. Only the runner goroutine calls it.
func (r *Report) merge(o Outcome) {
	r.Result.Errors = append(r.Result.Errors, o.Errors...)
	r.Result.Warnings = append(r.Result.Warnings, o.Warnings...)
	if o.Files != nil {
		r.Files = o.Files
	}
	if o.Lint != nil {
		r.Result.Lint = o.Lint.Results
	}
	r.Result.Formatted = append(r.Result.Formatted, o.Formatted...)
	r.Result.Unchanged = append(r.Result.Unchanged, o.Unchanged...)
}

// Failed reports whether any check recorded an error. Warnings never fail a
// run.
func (r *Report) Failed() bool {
	return len(r.Result.Errors) > 0
}

// Err returns nil for a passing run, or a *ChecksFailedError summarizing
// every error finding.
func (r *Report) Err() error {
	if !r.Failed() {
		return nil
	}
	failed := make(map[string]bool)
	for _, f := range r.Result.Errors {
		failed[f.Check] = true
	}
	return &ChecksFailedError{
		Failed:   len(failed),
		Total:    r.Checks,
		Findings: append([]Finding(nil), r.Result.Errors...),
	}
}

// ChecksFailedError is returned by [Report.Err] when at least one check
// failed.
type ChecksFailedError struct {
	Failed   int // distinct checks with errors
	Total    int
	Findings []Finding
}

// Error renders the summary: a header line, then each finding with its
// first line indented by two spaces and the rest by six.
func (e *ChecksFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d check(s) failed:\n", e.Failed, e.Total)
	for _, f := range e.Findings {
		for i, line := range strings.Split(f.Message, "\n") {
			if i == 0 {
				b.WriteString("  " + line + "\n")
			} else {
				b.WriteString("      " + line + "\n")
			}
		}
	}
	return b.String()
}
