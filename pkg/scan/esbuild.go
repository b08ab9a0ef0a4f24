package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/precommit/pkg/errors"
)

// ESBuild resolves imports with the esbuild bundler. All packages are marked
// external, so only project files are parsed and every bare import shows up
// in the metafile as an external import of the file that made it.
type ESBuild struct {
	Logger *log.Logger
}

// metafile is the subset of esbuild's metafile JSON that is read.
type metafile struct {
	Inputs map[string]struct {
		Imports []struct {
			Path     string `json:"path"`
			Kind     string `json:"kind"`
			External bool   `json:"external"`
			Original string `json:"original"`
		} `json:"imports"`
	} `json:"inputs"`
}

// assetPlugin marks relative imports of non-JavaScript files (images,
// stylesheets, templates) as external so esbuild does not need a loader for
// them. Extensionless imports fall through to the normal resolver.
var assetPlugin = api.Plugin{
	Name: "precommit-assets",
	Setup: func(build api.PluginBuild) {
		build.OnResolve(api.OnResolveOptions{Filter: `^\.\.?/`}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
			ext := filepath.Ext(args.Path)
			if ext == "" || resolvable[ext] || ext == ".json" {
				return api.OnResolveResult{}, nil
			}
			return api.OnResolveResult{Path: args.Path, External: true}, nil
		})
	},
}

// Scan implements Scanner.
func (e *ESBuild) Scan(ctx context.Context, dir string, files []string) (*Usage, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	usage := newUsage()
	if len(files) == 0 {
		return usage, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]string, len(files))
	for i, f := range files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(dir, f)
		}
		entries[i] = f
	}

	start := time.Now()
	result := api.Build(api.BuildOptions{
		EntryPoints:   entries,
		AbsWorkingDir: dir,
		Outdir:        filepath.Join(dir, ".precommit-scan"),
		EntryNames:    "[dir]/[name]-[hash]",
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Platform:      api.PlatformNode,
		Packages:      api.PackagesExternal,
		LogLevel:      api.LogLevelSilent,
		Loader: map[string]api.Loader{
			".js": api.LoaderJSX,
		},
		Plugins: []api.Plugin{assetPlugin},
	})
	if len(result.Errors) > 0 {
		return nil, errors.Wrap(errors.ErrCodeScanFailed, buildError(result.Errors), "esbuild could not parse %d file(s)", len(files))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta metafile
	if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
		return nil, errors.Wrap(errors.ErrCodeScanFailed, err, "decode esbuild metafile")
	}

	for input, info := range meta.Inputs {
		if strings.HasPrefix(input, "<") {
			continue
		}
		file := filepath.FromSlash(input)
		usage.Files = append(usage.Files, file)
		for _, imp := range info.Imports {
			if !imp.External {
				continue
			}
			spec := imp.Original
			if spec == "" {
				spec = imp.Path
			}
			if name, ok := PackageName(spec); ok {
				usage.add(name, file)
			}
		}
	}
	sort.Strings(usage.Files)

	logger.Debug("esbuild scan complete",
		"entries", len(entries),
		"files", len(usage.Files),
		"packages", len(usage.Packages),
		"duration", time.Since(start).Round(time.Millisecond))
	for _, w := range result.Warnings {
		logger.Debug("esbuild warning", "message", formatMessage(w))
	}
	return usage, nil
}

func buildError(msgs []api.Message) error {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, formatMessage(m))
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}
