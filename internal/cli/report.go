package cli

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/observability"
	"github.com/matzehuels/precommit/pkg/pipeline"
)

// =============================================================================
// Console
// =============================================================================

// consoleHooks prints one status line per stage as the pipeline runs.
type consoleHooks struct {
	out printer
}

func (h consoleHooks) OnStageStart(_ context.Context, stage, description string) {
	if stage == pipeline.StageResolve {
		return
	}
	h.out.info("%s", description)
}

func (h consoleHooks) OnStageComplete(_ context.Context, stage string, s observability.StageSummary, _ time.Duration, err error) {
	if err != nil || stage == pipeline.StageResolve {
		return
	}
	for _, title := range s.Errors {
		h.out.fail("%s", title)
	}
	for _, title := range s.Warnings {
		h.out.warning("%s", title)
	}
	if s.Clean() {
		h.out.success("%s", s.Passed)
	}
}

// printHeader prints the banner shown before the checks run.
func printHeader(w io.Writer) {
	p := printer{w: w}
	p.dim("Checking for potential errors%s", iconEllipsis)
	p.dim("Use the --debug flag to print diagnostic info")
	p.newline()
}

// printReport prints the outcome of a run: the failure summary on stderr, or
// the success line and any warnings on stdout.
func printReport(stdout, stderr io.Writer, report *pipeline.Report) {
	if err := report.Err(); err != nil {
		printFailure(stderr, err.(*pipeline.ChecksFailedError))
		return
	}

	out := printer{w: stdout}
	out.newline()
	out.success("0 potential errors found")

	warnings := report.Result.Warnings
	if len(warnings) == 0 {
		return
	}
	out.newline()
	out.warning("%d check(s) produced warnings you should be aware of:", len(warnings))
	out.newline()
	for _, w := range warnings {
		item := printer{w: stdout, indent: "  "}
		item.warning("%s", w.Title)
		_, rest, _ := strings.Cut(w.Message, "\n")
		if rest != "" {
			item.block("  ", rest)
		}
		out.newline()
	}
}

// printFailure renders a ChecksFailedError with the finding titles
// highlighted.
func printFailure(w io.Writer, e *pipeline.ChecksFailedError) {
	p := printer{w: w}
	p.newline()
	p.fail("%d of %d check(s) failed:", e.Failed, e.Total)
	for _, f := range e.Findings {
		title, rest, _ := strings.Cut(f.Message, "\n")
		p.block("  ", StyleError.Render(title))
		if rest == "" {
			continue
		}
		for _, line := range strings.Split(rest, "\n") {
			switch {
			case f.Fix != "" && strings.HasPrefix(line, "    "):
				line = StyleCommand.Render(line)
			case strings.HasPrefix(line, "http"):
				line = StyleLink.Render(line)
			}
			p.block("      ", line)
		}
	}
}

// printFatal reports an error that aborted the pipeline. With debug set the
// full error chain is printed as well.
func printFatal(w io.Writer, err error, debug bool) {
	p := printer{w: w}
	p.fail("%s", errors.UserMessage(err))
	if debug {
		p.detail("%v", err)
	}
}

// =============================================================================
// JSON
// =============================================================================

type jsonError struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// writeJSON encodes v with two-space indentation.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeJSONError encodes a fatal error as {"error": {"code", "message"}}.
func writeJSONError(w io.Writer, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return writeJSON(w, jsonError{Error: jsonErrorBody{Code: code, Message: errors.UserMessage(err)}})
}
