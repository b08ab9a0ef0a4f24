package pipeline

import (
	"fmt"
	"strings"

	"github.com/matzehuels/precommit/pkg/deps"
	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/format"
	"github.com/matzehuels/precommit/pkg/lint"
)

// depsOutcome turns a dependency check result into findings.
func depsOutcome(res *deps.Result) Outcome {
	if res.Empty() {
		return Outcome{}
	}
	check := string(res.Mode)
	title := res.Title()
	fix := res.Fix()

	if res.Mode.Advisory() {
		msg := title + "\n" +
			"There are modules listed as devDependencies in package.json we\n" +
			"could not detect are being used in your code.\n\n" +
			"Advanced users should consider updating the `dependency-check`\n" +
			"configuration in package.json to add additional entrypoints to scan for usage.\n" +
			"We suggest running the following command to clean-up:\n" +
			indent(fix, "    ") + "\n\n" +
			"Please see the configuration docs for more info:\n" +
			DocsURL
		return Outcome{Warnings: []Finding{{Check: check, Title: title, Message: msg, Fix: fix}}}
	}

	msg := title + "\n" +
		"You can correct this error by running:\n" +
		indent(fix, "    ") + "\n\n" +
		"Please see the configuration docs for more info:\n" +
		DocsURL
	return Outcome{Errors: []Finding{{Check: check, Title: title, Message: msg, Fix: fix}}}
}

// lintOutcome maps ESLint counts to findings: any error fails the check,
// warnings alone are advisory.
func lintOutcome(report *lint.Report) Outcome {
	out := Outcome{Lint: report}
	switch {
	case report.ErrorCount > 0:
		title := fmt.Sprintf("Please fix the %d error(s) below.", report.ErrorCount)
		out.Errors = []Finding{{
			Check:   StageLint,
			Title:   title,
			Message: title + "\n\n" + strings.TrimRight(report.Text(), "\n"),
		}}
	case report.WarningCount > 0:
		title := fmt.Sprintf("%d eslint warnings detected", report.WarningCount)
		out.Warnings = []Finding{{
			Check: StageLint,
			Title: title,
			Message: title + "\n" +
				fmt.Sprintf("While eslint detected 0 potential errors, you may want to consider addressing these %d warnings:", report.WarningCount) +
				"\n\n" + strings.TrimRight(report.Text(), "\n"),
		}}
	}
	return out
}

// formatOutcome records one error per file that could not be formatted and,
// in dry mode, a warning listing the files that would change.
func formatOutcome(s *format.Summary, dry bool) Outcome {
	out := Outcome{Unchanged: s.Unchanged}
	if !dry {
		out.Formatted = s.Formatted
	}
	for _, f := range s.Failures {
		title := fmt.Sprintf("Could not format %s", f.File)
		out.Errors = append(out.Errors, Finding{
			Check:   StageFormat,
			Title:   title,
			Message: title + "\n" + errors.UserMessage(f.Err),
		})
	}
	if dry && len(s.Formatted) > 0 {
		title := fmt.Sprintf("%d file(s) need formatting", len(s.Formatted))
		out.Warnings = append(out.Warnings, Finding{
			Check:   StageFormat,
			Title:   title,
			Message: title + "\n" + indent(strings.Join(s.Formatted, "\n"), "  "),
			Fix:     "precommit --format",
		})
	}
	return out
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
