// Package testsupport holds helpers shared by package tests: fixture
// parsing, golden files and template output capture.
package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typescaf/internal/checker"
	"github.com/goliatone/go-typescaf/internal/tsparse"
	"github.com/goliatone/go-typescaf/pkg/diagnostic"
	"github.com/goliatone/go-typescaf/pkg/inference"
)

// CustomerSource is the canonical single-class fixture.
const CustomerSource = `class Customer {
  @primaryKey
  customerId: number;
  @required
  @optionsLabel
  name: string;
  age: number | null;

  constructor(customerId: number, name: string, age: number | null = null) {
    this.customerId = customerId;
    this.name = name;
    this.age = age;
  }
}
`

// ParseSource parses src as path and fails the test on parse errors.
func ParseSource(t *testing.T, path, src string) *tsparse.SourceFile {
	t.Helper()

	file, errs := tsparse.Parse(path, src)
	for _, err := range errs {
		t.Errorf("parse %s: %v", path, err)
	}
	if len(errs) > 0 {
		t.FailNow()
	}
	return file
}

// LoadSource reads and parses a fixture file.
func LoadSource(t *testing.T, path string) *tsparse.SourceFile {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return ParseSource(t, path, string(data))
}

// NewEngine builds an inference engine over files with a collecting sink.
func NewEngine(t *testing.T, files ...*tsparse.SourceFile) (*inference.Engine, *diagnostic.Collector) {
	t.Helper()

	collector := diagnostic.NewCollector()
	program := checker.NewProgram(files)
	return inference.NewEngine(program, inference.WithSink(collector)), collector
}

// Class returns the named class of file or fails the test.
func Class(t *testing.T, file *tsparse.SourceFile, name string) *tsparse.ClassDeclaration {
	t.Helper()

	for _, class := range file.Classes() {
		if class.Name == name {
			return class
		}
	}
	t.Fatalf("class %s not found in %s", name, file.Path)
	return nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written.
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file as a string.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
