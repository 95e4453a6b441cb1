package scaffold

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoPackageJSON is returned when the project has no package.json.
var ErrNoPackageJSON = errors.New("scaffold: package.json not found")

// Scripts init adds to package.json.
var Scripts = map[string]string{
	"scaf-init":      "typescaf init",
	"scaf-transform": "typescaf transform",
}

// Runner runs an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, dir, name string, args ...string) error

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, dir, name string, args ...string) error {
	return f(ctx, dir, name, args...)
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scaffold: command failed: %s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// packageJSON keeps every top-level key of package.json so rewriting it only
// touches scripts.
type packageJSON struct {
	path   string
	fields map[string]json.RawMessage
}

func readPackageJSON(root string) (*packageJSON, error) {
	file := filepath.Join(root, "package.json")
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoPackageJSON
	}
	if err != nil {
		return nil, fmt.Errorf("scaffold: read %s: %w", file, err)
	}
	pkg := &packageJSON{path: file}
	if err := json.Unmarshal(data, &pkg.fields); err != nil {
		return nil, fmt.Errorf("scaffold: parse %s: %w", file, err)
	}
	if pkg.fields == nil {
		pkg.fields = map[string]json.RawMessage{}
	}
	return pkg, nil
}

func (p *packageJSON) stringMap(key string) (map[string]string, error) {
	out := map[string]string{}
	raw, ok := p.fields[key]
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("scaffold: %s in %s: %w", key, p.path, err)
	}
	return out, nil
}

// addScripts merges scripts and returns the names that replaced an existing
// different command.
func (p *packageJSON) addScripts(scripts map[string]string) ([]string, error) {
	current, err := p.stringMap("scripts")
	if err != nil {
		return nil, err
	}
	var replaced []string
	for _, name := range sortedKeys(scripts) {
		if old, ok := current[name]; ok && old != scripts[name] {
			replaced = append(replaced, name)
		}
		current[name] = scripts[name]
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	p.fields["scripts"] = raw
	return replaced, nil
}

func (p *packageJSON) write() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.fields); err != nil {
		return fmt.Errorf("scaffold: encode %s: %w", p.path, err)
	}
	return os.WriteFile(p.path, buf.Bytes(), 0o644)
}

// missing returns "name@version" specs for wanted packages absent from
// the installed map, sorted by name.
func missing(wanted, installed map[string]string) []string {
	var out []string
	for _, name := range sortedKeys(wanted) {
		if _, ok := installed[name]; ok {
			continue
		}
		spec := name
		if v := strings.TrimSpace(wanted[name]); v != "" {
			spec += "@" + v
		}
		out = append(out, spec)
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
