// Package lint runs ESLint over a file set and reads its JSON report.
package lint

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// ESLint message severities.
const (
	SeverityWarning = 1
	SeverityError   = 2
)

// Message is one ESLint diagnostic.
type Message struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Fatal    bool   `json:"fatal,omitempty"`
}

// FileResult holds the diagnostics for one file.
type FileResult struct {
	FilePath     string    `json:"filePath"`
	Messages     []Message `json:"messages"`
	ErrorCount   int       `json:"errorCount"`
	WarningCount int       `json:"warningCount"`
}

// Report is the outcome of one ESLint run.
type Report struct {
	ErrorCount   int
	WarningCount int
	Results      []FileResult
}

func newReport(results []FileResult) *Report {
	r := &Report{Results: results}
	if r.Results == nil {
		r.Results = []FileResult{}
	}
	for _, res := range r.Results {
		r.ErrorCount += res.ErrorCount
		r.WarningCount += res.WarningCount
	}
	return r
}

// Clean reports whether ESLint found nothing.
func (r *Report) Clean() bool {
	return r.ErrorCount == 0 && r.WarningCount == 0
}

// Text renders the report the way ESLint's "stylish" formatter does, without
// colors. Files without messages are omitted and a clean report renders as
// the empty string.
func (r *Report) Text() string {
	if r.Clean() {
		return ""
	}

	var b strings.Builder
	for _, res := range r.Results {
		if len(res.Messages) == 0 {
			continue
		}
		b.WriteString(res.FilePath)
		b.WriteByte('\n')

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		for _, m := range res.Messages {
			fmt.Fprintf(tw, "  %d:%d\t%s\t%s\t%s\n", m.Line, m.Column, severityLabel(m.Severity), m.Message, m.RuleID)
		}
		tw.Flush()
		b.WriteByte('\n')
	}

	total := r.ErrorCount + r.WarningCount
	fmt.Fprintf(&b, "✖ %d %s (%d %s, %d %s)\n",
		total, plural(total, "problem"),
		r.ErrorCount, plural(r.ErrorCount, "error"),
		r.WarningCount, plural(r.WarningCount, "warning"))
	return b.String()
}

func severityLabel(s int) string {
	if s >= SeverityError {
		return "error"
	}
	return "warning"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
