package orchestrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typescaf/pkg/orchestrator"
	"github.com/goliatone/go-typescaf/pkg/schema"
)

func props(names ...string) []schema.Property {
	out := make([]schema.Property, 0, len(names))
	for _, n := range names {
		out = append(out, schema.NewProperty(n, schema.TypeDescriptor{Control: schema.ControlText, Validation: schema.ValidationString}, schema.Annotations{}))
	}
	return out
}

func TestJSONPresetTransformer(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.json": {Data: []byte(`{
  "classes": {
    "Customer": {"exclude": ["notes"], "required": ["email"], "optionsLabel": "email"}
  }
}`)},
	}
	preset, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}

	in := props("name", "email", "notes")
	in[0].OptionsLabel = true
	got, err := preset.Transform(context.Background(), "Customer", in)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}

	type row struct {
		Name         string
		Required     bool
		OptionsLabel bool
	}
	var rows []row
	for _, p := range got {
		rows = append(rows, row{p.Name, p.Required, p.OptionsLabel})
	}
	want := []row{{"name", false, false}, {"email", true, true}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("transform mismatch (-want +got):\n%s", diff)
	}

	untouched, err := preset.Transform(context.Background(), "Order", props("total"))
	if err != nil || len(untouched) != 1 {
		t.Fatalf("unpatched class = %v, %v", untouched, err)
	}
}

func TestJSONPresetTransformerErrors(t *testing.T) {
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := orchestrator.NewJSONPresetTransformer([]byte("{")); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := orchestrator.NewJSONPresetTransformerFromFS(fstest.MapFS{}, "missing.json"); err == nil {
		t.Fatalf("expected read error")
	}

	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{"classes": {"Customer": {"exclude": ["ghost"]}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := preset.Transform(context.Background(), "Customer", props("name")); err == nil {
		t.Fatalf("expected unknown property error")
	}
}

func TestTransformerFuncNil(t *testing.T) {
	var fn orchestrator.TransformerFunc
	in := props("a")
	out, err := fn.Transform(context.Background(), "X", in)
	if err != nil || len(out) != 1 {
		t.Fatalf("nil func = %v, %v", out, err)
	}
}
