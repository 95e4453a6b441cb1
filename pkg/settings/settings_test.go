package settings_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-typescaf/pkg/settings"
)

func TestParseJSONFillsDefaults(t *testing.T) {
	doc := `{
	"templateType": "react",
	"baseRestApiUrl": "https://api.example.com/",
	"transformTemplates": [
		{"templateFileName": "form.tpl", "outputDirectory": "src/{{className}}", "generatedFileName": "{{className}}Form"}
	],
	"generateDebugTypes": {"enabled": true, "outputPath": "types-debug"},
	"mockData": {"records": 3}
}`
	got, err := settings.Parse([]byte(doc), "settings.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got.BaseRestAPIURL != "https://api.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", got.BaseRestAPIURL)
	}
	wantTemplates := []settings.TransformTemplate{{
		Name:              "form",
		TemplateFileName:  "form.tpl",
		OutputDirectory:   "src/{{className}}",
		GeneratedFileName: "{{className}}Form",
		Extension:         ".jsx",
	}}
	if diff := cmp.Diff(wantTemplates, got.TransformTemplates); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
	if !got.GenerateDebugTypes.Enabled || got.GenerateDebugTypes.OutputPath != "types-debug" {
		t.Fatalf("debug toggle: %+v", got.GenerateDebugTypes)
	}
	if got.MockData.Records != 3 || got.MockData.Options != 4 {
		t.Fatalf("mock data sizing: %+v", got.MockData)
	}
	if got.MaxDepth != 32 {
		t.Fatalf("max depth default: %d", got.MaxDepth)
	}
	if diff := cmp.Diff([]string{settings.DefaultSource}, got.Sources); diff != "" {
		t.Fatalf("sources (-want +got):\n%s", diff)
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
templateType: react
templateVariant: typescript
mockData:
  records: 2
  options: 6
sources:
  - src/models/**/*.ts
`
	got, err := settings.Parse([]byte(doc), "settings.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.TemplateVariant != "typescript" || got.MockData.Options != 6 {
		t.Fatalf("unexpected settings: %+v", got)
	}
	if len(got.TransformTemplates) != 4 {
		t.Fatalf("expected default templates, got %d", len(got.TransformTemplates))
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"unknown key":        `{"templateKind": "react"}`,
		"wrong type":         `{"mockData": {"records": "five"}}`,
		"fractional records": `{"mockData": {"records": 2.5}}`,
		"missing file name":  `{"transformTemplates": [{"outputDirectory": "x", "generatedFileName": "y"}]}`,
		"empty":              `   `,
		"garbage":            "templateType: [unclosed",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := settings.Parse([]byte(doc), "settings.json"); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadFSPrefersJSON(t *testing.T) {
	fsys := fstest.MapFS{
		".type-scaf/config/settings.json": {Data: []byte(`{"templateType": "json-set"}`)},
		".type-scaf/config/settings.yaml": {Data: []byte("templateType: yaml-set\n")},
	}
	got, file, err := settings.LoadFS(fsys, settings.ConfigDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if file != ".type-scaf/config/settings.json" || got.TemplateType != "json-set" {
		t.Fatalf("unexpected pick %s / %s", file, got.TemplateType)
	}
}

func TestLoadFSNotFound(t *testing.T) {
	_, _, err := settings.LoadFS(fstest.MapFS{}, settings.ConfigDir)
	if !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	s := settings.Defaults()
	env := map[string]string{
		settings.EnvBaseRestAPIURL: "http://override/api/",
		settings.EnvTemplateType:   "vue",
	}
	s.ApplyEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if s.BaseRestAPIURL != "http://override/api" || s.TemplateType != "vue" {
		t.Fatalf("env overrides not applied: %+v", s)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	def := settings.Defaults()
	def.Normalize()
	out, err := settings.Marshal(def)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"templateFileName": "form.tpl"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	back, err := settings.Parse(out, "settings.json")
	if err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if diff := cmp.Diff(def, back); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}
