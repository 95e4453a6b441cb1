package render

import (
	"path/filepath"
	"strings"
)

// ClassNamePlaceholder is substituted in output directories and file names.
const ClassNamePlaceholder = "{{className}}"

// Layout places generated files under a project root. In test mode every
// relative output path gains a leading "." so generated files land in
// hidden directories next to the real ones.
type Layout struct {
	Root     string
	TestMode bool
}

// Dir resolves an output directory pattern for className.
func (l Layout) Dir(pattern, className string) string {
	return l.path(ExpandClassName(pattern, className))
}

// RuntimeDir resolves a fixed output directory such as the debug path.
func (l Layout) RuntimeDir(rel string) string {
	return l.path(rel)
}

func (l Layout) path(rel string) string {
	if l.TestMode {
		rel = "." + rel
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(l.Root, rel)
}

// ExpandClassName replaces every {{className}} in pattern.
func ExpandClassName(pattern, className string) string {
	return strings.ReplaceAll(pattern, ClassNamePlaceholder, className)
}
