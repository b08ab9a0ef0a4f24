package pipeline

import (
	"strings"
	"testing"

	"github.com/matzehuels/precommit/pkg/deps"
	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/format"
	"github.com/matzehuels/precommit/pkg/lint"
)

func TestReportErrNilWhenOnlyWarnings(t *testing.T) {
	r := newReport()
	r.Checks = 3
	r.merge(Outcome{Warnings: []Finding{{Check: "extra-dev", Title: "w", Message: "w"}}})

	if r.Failed() {
		t.Error("warnings must not fail the report")
	}
	if err := r.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestChecksFailedErrorFormat(t *testing.T) {
	r := newReport()
	r.Checks = 3
	r.merge(Outcome{Errors: []Finding{{Check: "missing", Title: "a", Message: "a\nfix a"}}})
	r.merge(Outcome{Errors: []Finding{{Check: "lint", Title: "b", Message: "b"}}})

	err := r.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	cfe, ok := err.(*ChecksFailedError)
	if !ok {
		t.Fatalf("Err() type = %T, want *ChecksFailedError", err)
	}
	if cfe.Failed != 2 || cfe.Total != 3 {
		t.Errorf("Failed/Total = %d/%d, want 2/3", cfe.Failed, cfe.Total)
	}

	want := "2 of 3 check(s) failed:\n" +
		"  a\n" +
		"      fix a\n" +
		"  b\n"
	if got := err.Error(); got != want {
		t.Errorf("Error() =\n%q\nwant\n%q", got, want)
	}
}

func TestChecksFailedCountsDistinctChecks(t *testing.T) {
	r := newReport()
	r.Checks = 4
	r.merge(Outcome{Errors: []Finding{
		{Check: "format", Title: "x", Message: "x"},
		{Check: "format", Title: "y", Message: "y"},
	}})

	if got := r.Err().(*ChecksFailedError).Failed; got != 1 {
		t.Errorf("Failed = %d, want 1", got)
	}
}

func TestDepsOutcome(t *testing.T) {
	missing := depsOutcome(&deps.Result{Mode: deps.Missing, Packages: []string{"lodash"}})
	if len(missing.Errors) != 1 || len(missing.Warnings) != 0 {
		t.Fatalf("missing: errors=%d warnings=%d", len(missing.Errors), len(missing.Warnings))
	}
	f := missing.Errors[0]
	if f.Check != "missing" || !strings.HasPrefix(f.Message, f.Title+"\n") {
		t.Errorf("unexpected finding %+v", f)
	}
	if !strings.Contains(f.Message, "npm install --save lodash;") {
		t.Errorf("message lacks fix: %q", f.Message)
	}

	extraDev := depsOutcome(&deps.Result{Mode: deps.ExtraDev, Packages: []string{"sinon"}})
	if len(extraDev.Errors) != 0 || len(extraDev.Warnings) != 1 {
		t.Fatalf("extra-dev: errors=%d warnings=%d", len(extraDev.Errors), len(extraDev.Warnings))
	}
	if extraDev.Warnings[0].Fix != "npm uninstall --save-dev sinon;" {
		t.Errorf("Fix = %q", extraDev.Warnings[0].Fix)
	}

	empty := depsOutcome(&deps.Result{Mode: deps.Extra})
	if len(empty.Errors)+len(empty.Warnings) != 0 {
		t.Error("empty result should produce no findings")
	}
}

func TestLintOutcome(t *testing.T) {
	errs := lintOutcome(&lint.Report{ErrorCount: 2, WarningCount: 5})
	if len(errs.Errors) != 1 || len(errs.Warnings) != 0 {
		t.Fatalf("errors=%d warnings=%d", len(errs.Errors), len(errs.Warnings))
	}
	if errs.Errors[0].Title != "Please fix the 2 error(s) below." {
		t.Errorf("Title = %q", errs.Errors[0].Title)
	}

	warns := lintOutcome(&lint.Report{WarningCount: 3})
	if len(warns.Errors) != 0 || len(warns.Warnings) != 1 {
		t.Fatalf("errors=%d warnings=%d", len(warns.Errors), len(warns.Warnings))
	}
	if warns.Warnings[0].Title != "3 eslint warnings detected" {
		t.Errorf("Title = %q", warns.Warnings[0].Title)
	}

	clean := lintOutcome(&lint.Report{})
	if len(clean.Errors)+len(clean.Warnings) != 0 {
		t.Error("clean report should produce no findings")
	}
}

func TestFormatOutcome(t *testing.T) {
	s := &format.Summary{
		Formatted: []string{"a.js"},
		Unchanged: []string{"b.js"},
		Failures:  []format.Failure{{File: "c.js", Err: errors.New(errors.ErrCodeFormatFailed, "format c.js: exit status 2")}},
	}

	out := formatOutcome(s, false)
	if len(out.Errors) != 1 || out.Errors[0].Check != "format" {
		t.Fatalf("errors = %+v", out.Errors)
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings %+v", out.Warnings)
	}
	if len(out.Formatted) != 1 || out.Formatted[0] != "a.js" {
		t.Errorf("Formatted = %v", out.Formatted)
	}

	dry := formatOutcome(s, true)
	if len(dry.Formatted) != 0 {
		t.Errorf("dry run should not list files as formatted: %v", dry.Formatted)
	}
	if len(dry.Warnings) != 1 || dry.Warnings[0].Title != "1 file(s) need formatting" {
		t.Errorf("Warnings = %+v", dry.Warnings)
	}
}
