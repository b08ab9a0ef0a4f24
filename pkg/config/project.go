package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/precommit/pkg/errors"
)

// ProjectFile is the name of the optional per-project settings file.
const ProjectFile = "precommit.toml"

// Project holds settings read from precommit.toml.
type Project struct {
	Deps   ProjectDeps   `toml:"deps"`
	Lint   ProjectLint   `toml:"lint"`
	Format ProjectFormat `toml:"format"`
}

// ProjectDeps configures the dependency checks.
type ProjectDeps struct {
	Ignore  []string `toml:"ignore"`
	Entries []string `toml:"entries"`
}

// ProjectLint configures the linter invocation.
type ProjectLint struct {
	Command []string `toml:"command"`
}

// ProjectFormat configures the formatter invocation.
type ProjectFormat struct {
	Enabled bool     `toml:"enabled"`
	Command []string `toml:"command"`
}

// LoadProject reads dir/precommit.toml. A missing file yields a zero Project.
func LoadProject(dir string) (Project, error) {
	var p Project
	path := filepath.Join(dir, ProjectFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", ProjectFile)
	}

	md, err := toml.Decode(string(data), &p)
	if err != nil {
		return Project{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", ProjectFile)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Project{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", ProjectFile, undecoded[0].String())
	}
	return p, nil
}
