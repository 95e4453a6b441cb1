// Package scaffold prepares a project for generation: it writes the default
// settings, an example types file and the chosen template set under
// .type-scaf, registers the package.json scripts and installs the packages
// the generated components import.
package scaffold

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-typescaf/pkg/settings"
	"github.com/goliatone/go-typescaf/pkg/templates"
)

//go:embed files/package-types.ts
var packageTypes []byte

// PackageTypes returns the example types file init writes.
func PackageTypes() []byte {
	return append([]byte(nil), packageTypes...)
}

// Options configures Init.
type Options struct {
	// Root is the project directory. Empty means the working directory.
	Root string

	// TemplateSet names the set to copy. Empty asks, defaulting to react.
	TemplateSet string

	// Force overwrites existing files without asking.
	Force bool

	// SkipInstall leaves package.json dependencies alone.
	SkipInstall bool

	Prompter Prompter
	Runner   Runner
	Logger   *slog.Logger
	Catalog  *templates.Catalog
}

// Result lists what Init did. Paths are relative to the project root.
type Result struct {
	TemplateSet string
	Written     []string
	Skipped     []string
	Scripts     []string
	Installed   []string
}

// Init scaffolds the project at opts.Root. A missing package.json is an
// error and nothing is written in that case.
func Init(ctx context.Context, opts Options) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("scaffold: context is required")
	}
	opts = withDefaults(opts)

	pkg, err := readPackageJSON(opts.Root)
	if err != nil {
		opts.Logger.Error("package.json not found", "root", opts.Root)
		return nil, err
	}

	set := opts.TemplateSet
	if set == "" {
		names := opts.Catalog.Names()
		set, err = opts.Prompter.Select(ctx, SelectConfig{
			Message: "Template set",
			Options: names,
			Default: "react",
		})
		if err != nil {
			return nil, err
		}
	}
	if !contains(opts.Catalog.Names(), set) {
		return nil, fmt.Errorf("scaffold: unknown template set %q", set)
	}

	res := &Result{TemplateSet: set}
	cfg := settings.Defaults()
	cfg.TemplateType = set
	cfg.Sources = []string{settings.DefaultSource}

	files, err := defaultFiles(cfg)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		wrote, err := writeFile(ctx, opts, f)
		if err != nil {
			return res, err
		}
		if wrote {
			res.Written = append(res.Written, f.path)
		} else {
			res.Skipped = append(res.Skipped, f.path)
		}
	}

	replaced, err := pkg.addScripts(Scripts)
	if err != nil {
		return res, err
	}
	for _, name := range replaced {
		opts.Logger.Warn("Script already exists in package.json and will be overwritten", "script", name)
	}
	if err := pkg.write(); err != nil {
		return res, err
	}
	res.Scripts = sortedKeys(Scripts)
	opts.Logger.Info("Scaf scripts added to package.json")

	if !opts.SkipInstall {
		installed, err := install(ctx, opts, pkg, cfg)
		res.Installed = installed
		if err != nil {
			return res, err
		}
	}

	opts.Logger.Info("Installation complete", "written", len(res.Written), "skipped", len(res.Skipped))
	return res, nil
}

func withDefaults(opts Options) Options {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Prompter == nil {
		opts.Prompter = AssumeYes{}
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Catalog == nil {
		opts.Catalog = templates.DefaultCatalog()
	}
	return opts
}

type file struct {
	path string
	data []byte
}

// defaultFiles lists the files init writes, as slash paths relative to the
// project root.
func defaultFiles(cfg settings.Settings) ([]file, error) {
	data, err := settings.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	files := []file{
		{path: settings.ConfigDir + "/settings.json", data: data},
		{path: settings.DefaultSource, data: PackageTypes()},
	}

	sets := templates.FS()
	err = fs.WalkDir(sets, cfg.TemplateType, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := fs.ReadFile(sets, p)
		if err != nil {
			return err
		}
		files = append(files, file{path: path.Join(settings.TemplatesDir, p), data: content})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("scaffold: read template set %s: %w", cfg.TemplateType, err)
	}
	return files, nil
}

// writeFile writes f unless it already exists and neither Force nor the
// prompter allow overwriting it.
func writeFile(ctx context.Context, opts Options, f file) (bool, error) {
	dest := filepath.Join(opts.Root, filepath.FromSlash(f.path))
	if _, err := os.Stat(dest); err == nil && !opts.Force {
		ok, err := opts.Prompter.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s exists. Overwrite?", f.path),
			Default: false,
		})
		if err != nil {
			return false, err
		}
		if !ok {
			opts.Logger.Info("Keeping existing file", "file", f.path)
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("scaffold: %w", err)
	}
	if err := os.WriteFile(dest, f.data, 0o644); err != nil {
		return false, fmt.Errorf("scaffold: %w", err)
	}
	opts.Logger.Debug("File written", "file", f.path)
	return true, nil
}

// install runs npm for every configured dependency missing from
// package.json. Runtime packages go to dependencies, the rest with
// --save-dev.
func install(ctx context.Context, opts Options, pkg *packageJSON, cfg settings.Settings) ([]string, error) {
	deps, err := pkg.stringMap("dependencies")
	if err != nil {
		return nil, err
	}
	devDeps, err := pkg.stringMap("devDependencies")
	if err != nil {
		return nil, err
	}
	runtime := missing(cfg.Dependencies, deps)
	dev := missing(cfg.DevDependencies, devDeps)
	if len(runtime) == 0 && len(dev) == 0 {
		opts.Logger.Info("All dependencies already installed")
		return nil, nil
	}

	ok, err := opts.Prompter.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Install %s?", strings.Join(append(append([]string{}, runtime...), dev...), ", ")),
		Default: true,
	})
	if err != nil || !ok {
		return nil, err
	}

	var installed []string
	for _, spec := range runtime {
		opts.Logger.Info("Running: npm install " + spec)
		if err := opts.Runner.Run(ctx, opts.Root, "npm", "install", spec); err != nil {
			return installed, err
		}
		installed = append(installed, spec)
	}
	for _, spec := range dev {
		opts.Logger.Info("Running: npm install --save-dev " + spec)
		if err := opts.Runner.Run(ctx, opts.Root, "npm", "install", "--save-dev", spec); err != nil {
			return installed, err
		}
		installed = append(installed, spec)
	}
	return installed, nil
}

func contains(list []string, want string) bool {
	return indexOf(list, want) >= 0
}
