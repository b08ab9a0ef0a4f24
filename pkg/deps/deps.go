package deps

import (
	"fmt"
	"strings"
)

// Mode selects which comparison a [Checker] performs.
type Mode string

const (
	Missing  Mode = "missing"
	Extra    Mode = "extra"
	ExtraDev Mode = "extra-dev"
)

// Modes lists every mode in pipeline order.
var Modes = []Mode{Missing, Extra, ExtraDev}

// Description is the one-line progress text for the mode.
func (m Mode) Description() string {
	switch m {
	case Extra:
		return "Checking for dependencies in package.json not used in code"
	case ExtraDev:
		return "Checking for devDependencies in package.json not used in code"
	default:
		return "Checking for dependencies used in code but not added to package.json"
	}
}

// Advisory reports whether findings in this mode are warnings rather than
// failures.
func (m Mode) Advisory() bool {
	return m == ExtraDev
}

// Result holds the packages a check flagged.
type Result struct {
	Mode     Mode
	Packages []string // sorted, unique
}

// Empty reports whether the check found nothing.
func (r *Result) Empty() bool {
	return len(r.Packages) == 0
}

// Title summarizes the finding in one line.
func (r *Result) Title() string {
	n := len(r.Packages)
	switch r.Mode {
	case Extra:
		return fmt.Sprintf("%d dependencies in package.json are not used in code", n)
	case ExtraDev:
		return fmt.Sprintf("%d potentially unused devDependencies", n)
	default:
		return fmt.Sprintf("%d dependencies|devDependencies missing from package.json", n)
	}
}

// Fix returns the npm command(s) that resolve the finding, or "" when there
// is nothing to fix. Missing packages get one install line each.
func (r *Result) Fix() string {
	if r.Empty() {
		return ""
	}
	switch r.Mode {
	case Extra:
		return "npm uninstall --save " + strings.Join(r.Packages, " ") + ";"
	case ExtraDev:
		return "npm uninstall --save-dev " + strings.Join(r.Packages, " ") + ";"
	default:
		lines := make([]string, len(r.Packages))
		for i, name := range r.Packages {
			lines[i] = "npm install --save " + name + ";"
		}
		return strings.Join(lines, "\n")
	}
}

// Passed is the status text shown when the check finds nothing.
func (m Mode) Passed() string {
	switch m {
	case Extra:
		return "No extra dependencies in package.json"
	case ExtraDev:
		return "No extra devDependencies in package.json"
	default:
		return "No missing dependencies in package.json"
	}
}
