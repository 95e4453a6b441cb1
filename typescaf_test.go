package typescaf

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-typescaf/pkg/format"
	"github.com/goliatone/go-typescaf/pkg/orchestrator"
)

func TestEmbeddedTemplatesContainReactSet(t *testing.T) {
	data, err := fs.ReadFile(EmbeddedTemplates(), "react/form.tpl")
	if err != nil {
		t.Fatalf("expected react form template to be readable: %v", err)
	}
	if !strings.Contains(string(data), "useForm") {
		t.Fatalf("expected react form template to use react-hook-form")
	}
}

func TestTransformOnDisk(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, ".type-scaf", "config", "package-types.ts")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "class Product {\n  constructor(name: string) { this.name = name }\n}\n"
	if err := os.WriteFile(src, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Transform(context.Background(), root, orchestrator.WithFormatter(format.NewRegistry()))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(report.Classes) != 1 || report.Classes[0] != "Product" {
		t.Fatalf("classes = %v", report.Classes)
	}
	if _, err := os.Stat(filepath.Join(root, "src", "components", "Product", "ProductForm.jsx")); err != nil {
		t.Fatalf("form not written: %v", err)
	}

	out, err := Extract(context.Background(), root)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := out.Map()["Product"]; len(got) != 1 || got[0].Name != "name" {
		t.Fatalf("extracted = %#v", got)
	}
}
