package format_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-typescaf/pkg/format"
)

func TestRegistrySelectsByExtension(t *testing.T) {
	r := format.Default()

	out, err := r.Format("Customer.debug.json", []byte(`{"className":"Customer","properties":[]}`))
	if err != nil {
		t.Fatalf("json format: %v", err)
	}
	want := "{\n  \"className\": \"Customer\",\n  \"properties\": []\n}\n"
	if string(out) != want {
		t.Fatalf("unexpected json output:\n%s", out)
	}

	raw := []byte("plain   text")
	out, err = r.Format("README.md", raw)
	if err != nil || string(out) != string(raw) {
		t.Fatalf("unknown extensions must pass through, got %q (%v)", out, err)
	}
}

func TestScriptKeepsJSX(t *testing.T) {
	src := `import React from "react";
export default function CustomerForm(   ) { return <form   className="x"><input name="name"/></form> }`
	out, err := format.Default().Format("CustomerForm.jsx", []byte(src))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "<form") || !strings.Contains(got, "export default function CustomerForm()") {
		t.Fatalf("expected JSX preserved and reprinted, got:\n%s", got)
	}
}

func TestScriptReportsSyntaxErrors(t *testing.T) {
	_, err := format.Default().Format("Broken.jsx", []byte("export const = ;"))
	if err == nil {
		t.Fatal("expected syntax error")
	}
	if !strings.Contains(err.Error(), "Broken.jsx") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestJSONRejectsInvalidInput(t *testing.T) {
	if _, err := (format.JSON{}).Format("x.json", []byte("{")); err == nil {
		t.Fatal("expected error")
	}
}
