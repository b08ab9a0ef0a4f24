package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleCommand for corrective commands.
	StyleCommand = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for failed check titles.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconInfo     = "›"
	iconEllipsis = "…"
)

// =============================================================================
// Printer
// =============================================================================

// printer writes styled status lines to w, each prefixed with indent.
type printer struct {
	w      io.Writer
	indent string
}

// success prints a success message.
func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, p.indent+styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// fail prints an error message.
func (p printer) fail(format string, args ...any) {
	fmt.Fprintln(p.w, p.indent+styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

// warning prints a warning message.
func (p printer) warning(format string, args ...any) {
	fmt.Fprintln(p.w, p.indent+styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// info prints an in-progress status message.
func (p printer) info(format string, args ...any) {
	fmt.Fprintln(p.w, p.indent+styleIconInfo.Render(iconInfo)+" "+StyleDim.Render(fmt.Sprintf(format, args...)+iconEllipsis))
}

// detail prints a dim indented line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, p.indent+"  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// dim prints a dim line.
func (p printer) dim(format string, args ...any) {
	fmt.Fprintln(p.w, p.indent+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// block prints every line of text with the given indent.
func (p printer) block(indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(p.w, p.indent+indent+line)
	}
}

// newline prints an empty line.
func (p printer) newline() {
	fmt.Fprintln(p.w)
}
