package templates

import (
	"io/fs"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

func TestEmbeddedSetFiles(t *testing.T) {
	for _, path := range React().Templates {
		if _, err := fs.Stat(FS(), path); err != nil {
			t.Errorf("template %s: %v", path, err)
		}
	}
	for _, path := range React().Variants["typescript"].Templates {
		if _, err := fs.Stat(FS(), path); err != nil {
			t.Errorf("variant template %s: %v", path, err)
		}
	}
}

func TestSelectAndConfig(t *testing.T) {
	catalog := DefaultCatalog()
	if diff := cmp.Diff([]string{"react"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	sel, err := catalog.Select("react", "typescript")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := Config(sel)
	if cfg.Theme != "react" || cfg.Variant != "typescript" {
		t.Fatalf("config theme = %s/%s", cfg.Theme, cfg.Variant)
	}
	if got := TemplatePath(cfg, "react", "hooks.tpl"); got != "react/hooks.ts.tpl" {
		t.Fatalf("hooks path = %q", got)
	}
	if got := TemplatePath(cfg, "react", "form.tpl"); got != "react/form.tpl" {
		t.Fatalf("form path = %q", got)
	}
	if got := cfg.Tokens[ExtensionToken("hooks.tpl")]; got != ".ts" {
		t.Fatalf("extension token = %q", got)
	}
	if got := cfg.CSSVars["--formClass"]; got != "scaf-form" {
		t.Fatalf("css var = %q", got)
	}
	if _, ok := cfg.CSSVars["--hooks.tpl.extension"]; ok {
		t.Fatalf("dotted tokens must not become css vars")
	}
}

func TestSelectUnknown(t *testing.T) {
	catalog := DefaultCatalog()
	if _, err := catalog.Select("react", "solid"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}

	sel, err := catalog.Select("vue", "")
	if err != nil {
		t.Fatalf("select unknown set: %v", err)
	}
	cfg := Config(sel)
	if got := TemplatePath(cfg, "vue", "form.tpl"); got != "vue/form.tpl" {
		t.Fatalf("fallback path = %q", got)
	}
	if got := TemplatePath(nil, "react", "list.tpl"); got != "react/list.tpl" {
		t.Fatalf("nil config path = %q", got)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	catalog := DefaultCatalog()
	if err := catalog.Register(React()); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := catalog.Register(&theme.Manifest{}); err == nil {
		t.Fatalf("expected name error")
	}
}

func TestAssetURL(t *testing.T) {
	m := &theme.Manifest{
		Name:   "plain",
		Assets: theme.Assets{Prefix: "/static/", Files: map[string]string{"logo": "logo.svg"}},
	}
	cfg := Config(&theme.Selection{Theme: "plain", Manifest: m})
	if got := cfg.AssetURL("logo"); got != "/static/logo.svg" {
		t.Fatalf("asset url = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset = %q", got)
	}
}
