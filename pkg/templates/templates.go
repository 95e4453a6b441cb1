// Package templates bundles the component template sets. Each set is a
// go-theme manifest whose Templates map a template file name to its path
// inside the embedded filesystem; variants swap individual files and tokens.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

//go:embed sets
var embedded embed.FS

// FS returns the embedded template sets rooted so that paths read
// "<set>/<file>".
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "sets")
	if err != nil {
		panic(err)
	}
	return sub
}

// ExtensionToken names the token that overrides a template's output
// extension, e.g. "hooks.tpl.extension".
func ExtensionToken(templateFile string) string {
	return templateFile + ".extension"
}

// React is the default template set.
func React() *theme.Manifest {
	return &theme.Manifest{
		Name:    "react",
		Version: "1.0.0",
		Tokens: map[string]string{
			"formClass":   "scaf-form",
			"fieldClass":  "scaf-field",
			"tableClass":  "scaf-table",
			"buttonClass": "scaf-button",
		},
		Templates: map[string]string{
			"form.tpl":  "react/form.tpl",
			"list.tpl":  "react/list.tpl",
			"story.tpl": "react/story.tpl",
			"hooks.tpl": "react/hooks.tpl",
		},
		Variants: map[string]theme.Variant{
			"typescript": {
				Tokens: map[string]string{
					ExtensionToken("hooks.tpl"): ".ts",
				},
				Templates: map[string]string{
					"hooks.tpl": "react/hooks.ts.tpl",
				},
			},
		},
	}
}

// Catalog resolves template set selections.
type Catalog struct {
	mu        sync.RWMutex
	manifests map[string]*theme.Manifest
}

// NewCatalog returns a catalog holding the given manifests.
func NewCatalog(manifests ...*theme.Manifest) (*Catalog, error) {
	c := &Catalog{manifests: make(map[string]*theme.Manifest)}
	for _, m := range manifests {
		if err := c.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultCatalog returns a catalog with the embedded sets.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(React())
	if err != nil {
		panic(err)
	}
	return c
}

// Register adds a manifest. Names must be unique.
func (c *Catalog) Register(m *theme.Manifest) error {
	if m == nil || strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("templates: manifest name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.manifests[m.Name]; ok {
		return fmt.Errorf("templates: template set %q already registered", m.Name)
	}
	c.manifests[m.Name] = m
	return nil
}

// Names lists registered sets.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the selection for a set and variant. Unknown sets yield an
// empty manifest so templates resolve from disk overrides alone; an unknown
// variant of a known set is an error.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	m, ok := c.manifests[name]
	c.mu.RUnlock()
	if !ok {
		return &theme.Selection{Theme: name, Variant: variant, Manifest: &theme.Manifest{Name: name}}, nil
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("templates: template set %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// Config flattens a selection into renderer configuration: variant
// templates and tokens override the base manifest, and every token is also
// exposed as a CSS custom property.
func Config(sel *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if sel == nil || sel.Manifest == nil {
		return cfg
	}
	cfg.Theme = sel.Theme
	cfg.Variant = sel.Variant

	m := sel.Manifest
	merge(cfg.Partials, m.Templates)
	merge(cfg.Tokens, m.Tokens)
	assets := m.Assets
	if v, ok := m.Variants[sel.Variant]; ok {
		merge(cfg.Partials, v.Templates)
		merge(cfg.Tokens, v.Tokens)
		if v.Assets.Prefix != "" {
			assets.Prefix = v.Assets.Prefix
		}
		if len(v.Assets.Files) > 0 {
			files := map[string]string{}
			merge(files, assets.Files)
			merge(files, v.Assets.Files)
			assets.Files = files
		}
	}
	for key, value := range cfg.Tokens {
		if strings.Contains(key, ".") {
			continue
		}
		cfg.CSSVars["--"+key] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := assets.Files[key]
		if !ok {
			return ""
		}
		if assets.Prefix == "" {
			return file
		}
		return strings.TrimRight(assets.Prefix, "/") + "/" + file
	}
	return cfg
}

// TemplatePath returns the template to load for a configured template file:
// the selection's partial when one is mapped, otherwise "<set>/<file>".
func TemplatePath(cfg *theme.RendererConfig, set, templateFile string) string {
	if cfg != nil {
		if p, ok := cfg.Partials[templateFile]; ok && p != "" {
			return p
		}
	}
	return set + "/" + templateFile
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
