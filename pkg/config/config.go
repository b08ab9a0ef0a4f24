// Package config builds the validated run configuration for precommit.
//
// Configuration comes from three places, highest precedence first:
//
//  1. Command-line flags and PRECOMMIT_* environment variables (bound by the
//     CLI through viper and handed over as [Params]).
//  2. The optional project file precommit.toml in the project directory.
//  3. Built-in defaults.
//
// Scalar options take the highest-precedence value that is set; list options
// (ignore, entries) are unioned across sources. [New] validates the merged
// result once and returns a [Config] that is treated as read-only from then on.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/precommit/pkg/errors"
	"github.com/matzehuels/precommit/pkg/resolve"
)

// Detectives understood by the dependency scanner.
const (
	DetectiveESBuild = "esbuild"
	DetectiveRegex   = "regex"
)

// DefaultDetective is the scanner used when --detective is not given.
const DefaultDetective = DetectiveESBuild

var (
	// DefaultLintCommand invokes the project's locally installed ESLint.
	DefaultLintCommand = []string{"npx", "--no-install", "eslint"}

	// DefaultFormatCommand invokes the project's locally installed Prettier.
	DefaultFormatCommand = []string{"npx", "--no-install", "prettier"}
)

// Params holds raw option values as parsed from flags and environment.
// Zero values mean "not set".
type Params struct {
	Dir       string
	Globs     []string
	JSON      bool
	Debug     bool
	Detective string
	Format    bool
	Dry       bool
	NoCache   bool
	Ignore    []string
	Entries   []string
}

// Config is the validated configuration for one invocation.
//
// Recognized options and their defaults:
//   - Dir: current working directory
//   - Globs: resolve.DefaultPatterns
//   - JSON, Debug, Format, Dry, NoCache: false
//   - Detective: "esbuild"
//   - Ignore, Entries: empty
//   - LintCommand: npx --no-install eslint
//   - FormatCommand: npx --no-install prettier
type Config struct {
	Dir           string   `validate:"required,dir"`
	Globs         []string `validate:"min=1,dive,required"`
	JSON          bool
	Debug         bool
	Detective     string `validate:"oneof=esbuild regex"`
	Format        bool
	Dry           bool
	NoCache       bool
	Ignore        []string `validate:"dive,pkgname"`
	Entries       []string `validate:"dive,relpath"`
	LintCommand   []string `validate:"min=1,dive,required"`
	FormatCommand []string `validate:"min=1,dive,required"`
}

// New merges p with the project file and defaults, then validates.
func New(p Params) (Config, error) {
	dir := p.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "get working directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve --dir %q", dir)
	}

	project, err := LoadProject(abs)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Dir:           abs,
		Globs:         copyStrings(p.Globs),
		JSON:          p.JSON,
		Debug:         p.Debug,
		Detective:     p.Detective,
		Format:        p.Format || project.Format.Enabled,
		Dry:           p.Dry,
		NoCache:       p.NoCache,
		Ignore:        union(p.Ignore, project.Deps.Ignore),
		Entries:       union(p.Entries, project.Deps.Entries),
		LintCommand:   copyStrings(project.Lint.Command),
		FormatCommand: copyStrings(project.Format.Command),
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if len(c.Globs) == 0 {
		c.Globs = copyStrings(resolve.DefaultPatterns)
	}
	if c.Detective == "" {
		c.Detective = DefaultDetective
	}
	if len(c.LintCommand) == 0 {
		c.LintCommand = copyStrings(DefaultLintCommand)
	}
	if len(c.FormatCommand) == 0 {
		c.FormatCommand = copyStrings(DefaultFormatCommand)
	}
}

// Validate checks c against its struct tags.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "dir":
		return "dir " + quote(fe.Value()) + " is not a directory"
	case "oneof":
		return strings.ToLower(fe.Field()) + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "pkgname":
		return "ignore entry " + quote(fe.Value()) + " is not a valid package name"
	case "relpath":
		return "entry " + quote(fe.Value()) + " must be a relative path inside the project"
	case "min":
		return strings.ToLower(fe.Field()) + " cannot be empty"
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	default:
		return fe.Error()
	}
}

func quote(v any) string {
	if s, ok := v.(string); ok {
		return `"` + s + `"`
	}
	return ""
}

func union(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func copyStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}
