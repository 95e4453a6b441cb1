package orchestrator

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// resolveSources expands slash separated glob patterns against fsys. The
// result keeps pattern order, sorts matches within a pattern and drops
// duplicates. A pattern without matches is an error so a typo never turns
// into a silent empty run.
func resolveSources(fsys fs.FS, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("orchestrator: no source patterns configured")
	}
	seen := make(map[string]bool)
	var out []string
	for _, raw := range patterns {
		pattern := cleanPattern(raw)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("orchestrator: invalid source pattern %q", raw)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("orchestrator: glob %q: %w", raw, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("orchestrator: no source files match %q", raw)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("orchestrator: no source patterns configured")
	}
	return out, nil
}

func cleanPattern(raw string) string {
	p := strings.TrimSpace(strings.ReplaceAll(raw, "\\", "/"))
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

// sourceDirs returns the distinct directories of the given slash paths.
func sourceDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := path.Dir(p)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}
