// Package format reprints generated source before it is written. Output is
// selected by file extension; unknown extensions pass through unchanged.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

// Formatter rewrites source for a given file path.
type Formatter interface {
	Format(path string, src []byte) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(path string, src []byte) ([]byte, error)

// Format implements Formatter.
func (f FormatterFunc) Format(path string, src []byte) ([]byte, error) {
	return f(path, src)
}

// Identity returns the input unchanged.
var Identity Formatter = FormatterFunc(func(_ string, src []byte) ([]byte, error) {
	return src, nil
})

// Registry maps lower-case extensions to formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// Default returns a registry with the script and JSON formatters.
func Default() *Registry {
	r := NewRegistry()
	script := Script{}
	for _, ext := range []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"} {
		r.Register(ext, script)
	}
	r.Register(".json", JSON{})
	return r
}

// Register binds a formatter to an extension, replacing any previous one.
func (r *Registry) Register(ext string, f Formatter) {
	ext = normaliseExt(ext)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[ext] = f
}

// For returns the formatter for path, falling back to Identity.
func (r *Registry) For(path string) Formatter {
	if r == nil {
		return Identity
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.formatters[normaliseExt(filepath.Ext(path))]; ok {
		return f
	}
	return Identity
}

// Format formats src with the formatter registered for path.
func (r *Registry) Format(path string, src []byte) ([]byte, error) {
	return r.For(path).Format(path, src)
}

func normaliseExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Script reprints JavaScript and TypeScript through esbuild, keeping JSX
// as written.
type Script struct{}

var loaders = map[string]esbuild.Loader{
	".js":  esbuild.LoaderJSX,
	".jsx": esbuild.LoaderJSX,
	".mjs": esbuild.LoaderJSX,
	".cjs": esbuild.LoaderJS,
	".ts":  esbuild.LoaderTS,
	".tsx": esbuild.LoaderTSX,
}

// Format implements Formatter.
func (Script) Format(path string, src []byte) ([]byte, error) {
	loader, ok := loaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		loader = esbuild.LoaderJSX
	}
	opts := esbuild.TransformOptions{
		Loader:     loader,
		JSX:        esbuild.JSXPreserve,
		Target:     esbuild.ESNext,
		Sourcefile: filepath.Base(path),
	}
	if loader == esbuild.LoaderTS || loader == esbuild.LoaderTSX {
		// keep type-only and JSX-only imports that TS elision would drop
		opts.TsconfigRaw = `{"compilerOptions":{"verbatimModuleSyntax":true}}`
	}
	result := esbuild.Transform(string(src), opts)
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			if msg.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text))
				continue
			}
			msgs = append(msgs, msg.Text)
		}
		return nil, fmt.Errorf("format: %s: %s", path, strings.Join(msgs, "; "))
	}
	return result.Code, nil
}

// JSON re-indents JSON documents with two spaces.
type JSON struct{}

// Format implements Formatter.
func (JSON) Format(path string, src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(src), "", "  "); err != nil {
		return nil, fmt.Errorf("format: %s: %w", path, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
