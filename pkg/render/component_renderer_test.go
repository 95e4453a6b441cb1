package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-typescaf/pkg/format"
	"github.com/goliatone/go-typescaf/pkg/render"
	"github.com/goliatone/go-typescaf/pkg/render/template/gotemplate"
	"github.com/goliatone/go-typescaf/pkg/settings"
	"github.com/goliatone/go-typescaf/pkg/templates"
)

type fixture struct {
	renderer *render.ComponentRenderer
	writer   *render.MemoryWriter
}

func newFixture(t *testing.T, cfg settings.Settings, opts ...render.Option) fixture {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(templates.FS()))
	require.NoError(t, err)

	sel, err := templates.DefaultCatalog().Select(cfg.TemplateType, cfg.TemplateVariant)
	require.NoError(t, err)
	themeCfg := templates.Config(sel)

	targets, err := render.NewTargets(cfg, engine, themeCfg, render.Layout{Root: "/proj"})
	require.NoError(t, err)

	writer := render.NewMemoryWriter()
	base := []render.Option{
		render.WithWriter(writer),
		render.WithFormatter(format.NewRegistry()),
		render.WithSynthesizer(newSynth()),
		render.WithTheme(themeCfg),
	}
	return fixture{
		renderer: render.NewComponentRenderer(cfg, targets, append(base, opts...)...),
		writer:   writer,
	}
}

func mustFile(t *testing.T, w *render.MemoryWriter, path string) string {
	t.Helper()
	data, ok := w.File(path)
	require.Truef(t, ok, "missing %s; written: %v", path, w.Paths())
	return string(data)
}

func TestRenderComponentWritesEveryTemplate(t *testing.T) {
	fx := newFixture(t, settings.Defaults())

	require.NoError(t, fx.renderer.RenderComponent(context.Background(), "Customer", customerProps()))

	assert.Equal(t, []string{
		"/proj/src/components/Customer/Customer.stories.jsx",
		"/proj/src/components/Customer/CustomerForm.jsx",
		"/proj/src/components/Customer/CustomerList.jsx",
		"/proj/src/components/Customer/useCustomer.js",
	}, fx.writer.Paths())
	assert.Len(t, fx.renderer.Written(), 4)
	assert.Empty(t, fx.renderer.Written())

	form := mustFile(t, fx.writer, "/proj/src/components/Customer/CustomerForm.jsx")
	assert.Contains(t, form, "export const customerSchema = yup.object({")
	assert.Contains(t, form, `name: yup.string().required("Name is required")`)
	assert.Contains(t, form, "age: yup.number().nullable()")
	assert.NotContains(t, form, "customerId: yup")
	assert.Contains(t, form, `<form className="scaf-form"`)
	assert.Contains(t, form, "export default function CustomerForm(")

	list := mustFile(t, fx.writer, "/proj/src/components/Customer/CustomerList.jsx")
	assert.Contains(t, list, "<caption>Customers</caption>")
	assert.Contains(t, list, `"label": "Customer Name 0"`)

	hooks := mustFile(t, fx.writer, "/proj/src/components/Customer/useCustomer.js")
	assert.Contains(t, hooks, `export const customerEndpoint = "http://localhost:4010/api/customers";`)
	assert.Contains(t, hooks, "export function useCustomerList()")
	assert.Contains(t, hooks, "values.customerId")

	story := mustFile(t, fx.writer, "/proj/src/components/Customer/Customer.stories.jsx")
	assert.Contains(t, story, `from "./CustomerForm";`)
}

func TestRenderComponentTypescriptVariant(t *testing.T) {
	cfg := settings.Defaults()
	cfg.TemplateVariant = "typescript"
	fx := newFixture(t, cfg)

	require.NoError(t, fx.renderer.RenderComponent(context.Background(), "Customer", customerProps()))

	hooks := mustFile(t, fx.writer, "/proj/src/components/Customer/useCustomer.ts")
	assert.Contains(t, hooks, "export interface CustomerRecord {")
	assert.Contains(t, hooks, "  customerId?: number;")
	assert.Contains(t, hooks, "  name: string;")
}

func TestRenderComponentDebugTarget(t *testing.T) {
	cfg := settings.Defaults()
	cfg.GenerateDebugTypes.Enabled = true
	fx := newFixture(t, cfg)

	require.NoError(t, fx.renderer.RenderComponent(context.Background(), "Customer", customerProps()))

	raw := mustFile(t, fx.writer, "/proj/debug/Customer.debug.json")
	var payload struct {
		ClassName  string           `json:"className"`
		Properties []map[string]any `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	assert.Equal(t, "Customer", payload.ClassName)
	require.Len(t, payload.Properties, len(customerProps()))
	assert.Equal(t, "customerId", payload.Properties[0]["name"])
	assert.Equal(t, true, payload.Properties[0]["primaryKey"])
	assert.Nil(t, payload.Properties[1]["properties"])
	assert.Equal(t, []any{}, payload.Properties[7]["properties"])
}

type failingTarget struct{ err error }

func (failingTarget) Name() string { return "broken" }

func (f failingTarget) Render(context.Context, *render.Component) (render.Output, error) {
	return render.Output{}, f.err
}

func TestRenderComponentJoinsTargetFailures(t *testing.T) {
	cfg := settings.Defaults()
	boom := errors.New("boom")
	targets := render.NewRegistry()
	targets.MustRegister(failingTarget{err: boom})
	for _, target := range mustTargets(t, cfg).Targets() {
		targets.MustRegister(target)
	}
	writer := render.NewMemoryWriter()
	r := render.NewComponentRenderer(cfg, targets,
		render.WithWriter(writer),
		render.WithFormatter(format.NewRegistry()),
		render.WithSynthesizer(newSynth()),
		render.WithConcurrency(1),
	)

	err := r.RenderComponent(context.Background(), "Customer", customerProps())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, writer.Paths(), 4)
}

func mustTargets(t *testing.T, cfg settings.Settings) *render.Registry {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(templates.FS()))
	require.NoError(t, err)
	targets, err := render.NewTargets(cfg, engine, nil, render.Layout{Root: "/proj"})
	require.NoError(t, err)
	return targets
}

func TestRenderComponentDecorators(t *testing.T) {
	relabel := render.DecoratorFunc(func(c *render.Component) error {
		f, ok := c.Field("name")
		if !ok {
			return errors.New("no name field")
		}
		f.Label = "Full name"
		f.Placeholder = "Jane Doe"
		return nil
	})
	fx := newFixture(t, settings.Defaults(), render.WithDecorators(relabel))

	require.NoError(t, fx.renderer.RenderComponent(context.Background(), "Customer", customerProps()))
	form := mustFile(t, fx.writer, "/proj/src/components/Customer/CustomerForm.jsx")
	assert.Contains(t, form, `.required("Full name is required")`)
	assert.Contains(t, form, `placeholder="Jane Doe"`)

	failing := render.DecoratorFunc(func(*render.Component) error { return errors.New("nope") })
	fx = newFixture(t, settings.Defaults(), render.WithDecorators(failing))
	err := fx.renderer.RenderComponent(context.Background(), "Customer", customerProps())
	require.Error(t, err)
	assert.Empty(t, fx.writer.Paths())
}

func TestRenderComponentCancelledContext(t *testing.T) {
	fx := newFixture(t, settings.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fx.renderer.RenderComponent(ctx, "Customer", customerProps())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fx.writer.Paths())
}

func TestRenderComponentFormatsScripts(t *testing.T) {
	fx := newFixture(t, settings.Defaults(), render.WithFormatter(format.Default()))

	require.NoError(t, fx.renderer.RenderComponent(context.Background(), "Customer", customerProps()))
	form := mustFile(t, fx.writer, "/proj/src/components/Customer/CustomerForm.jsx")
	assert.Contains(t, form, "export default function CustomerForm(")
	assert.True(t, strings.HasSuffix(form, "\n"))
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := render.NewRegistry()
	require.NoError(t, r.Register(failingTarget{}))
	require.Error(t, r.Register(failingTarget{}))
	require.Error(t, r.Register(nil))
	assert.True(t, r.Has("broken"))
	assert.Equal(t, []string{"broken"}, r.List())
	_, err := r.Get("missing")
	assert.Error(t, err)
}
