package inference_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-typescaf/internal/checker"
	"github.com/goliatone/go-typescaf/internal/tsparse"
	"github.com/goliatone/go-typescaf/pkg/diagnostic"
	"github.com/goliatone/go-typescaf/pkg/inference"
	"github.com/goliatone/go-typescaf/pkg/schema"
)

func load(t *testing.T, src string) (*inference.Engine, *diagnostic.Collector, *tsparse.SourceFile) {
	t.Helper()
	file, errs := tsparse.Parse("src/models.ts", src)
	require.Empty(t, errs)
	collector := diagnostic.NewCollector()
	program := checker.NewProgram([]*tsparse.SourceFile{file})
	return inference.NewEngine(program, inference.WithSink(collector)), collector, file
}

func class(t *testing.T, file *tsparse.SourceFile, name string) *tsparse.ClassDeclaration {
	t.Helper()
	for _, c := range file.Classes() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %s not found", name)
	return nil
}

func TestStripNullable(t *testing.T) {
	cases := map[string]string{
		"string":               "string",
		"string | null":        "string",
		"Date|null":            "Date",
		"null | number":        "number",
		"Array<Item> | null":   "Array<Item>",
		"string | undefined":   "string | undefined",
		"Nullable":             "Nullable",
		"string | null | null": "string",
	}
	for in, want := range cases {
		assert.Equal(t, want, inference.StripNullable(in), in)
	}
}

func TestMappedTypesResolveIdenticallyWhenNullable(t *testing.T) {
	var params []string
	for i, name := range inference.MappedTypeNames() {
		params = append(params, "a"+string(rune('a'+i))+": "+name, "n"+string(rune('a'+i))+": "+name+" | null")
	}
	engine, _, file := load(t, "class Probe { constructor("+strings.Join(params, ", ")+") {} }")
	ctor, ok := class(t, file, "Probe").Constructor()
	require.True(t, ok)

	for i, name := range inference.MappedTypeNames() {
		want, ok := inference.LookupMapping(name)
		require.True(t, ok)

		plain, _ := ctor.Param("a" + string(rune('a'+i)))
		nullable, _ := ctor.Param("n" + string(rune('a'+i)))

		got, err := inference.Resolve(engine.Program(), file.Path, plain.Type, engine.Extract)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)

		got, err = inference.Resolve(engine.Program(), file.Path, nullable.Type, engine.Extract)
		require.NoError(t, err)
		assert.Equal(t, want, got, name+" | null")
	}
}

func TestMappingIsCaseSensitive(t *testing.T) {
	_, ok := inference.LookupMapping("String")
	assert.False(t, ok)
	_, ok = inference.LookupMapping("date")
	assert.False(t, ok)
}

func TestCustomerEndToEnd(t *testing.T) {
	engine, collector, file := load(t, `
export class Customer {
  @primaryKey customerId: number;
  @required @optionsLabel name: string;
  age: number | null;

  constructor(customerId: number, name: string, age: number | null) {
    this.customerId = customerId;
    this.name = name;
    this.age = age;
  }
}
`)
	got := engine.Extract(class(t, file, "Customer"))
	want := []schema.Property{
		{Name: "customerId", Label: "CustomerId", Control: schema.ControlNumber, Validation: schema.ValidationNumber, PrimaryKey: true},
		{Name: "name", Label: "Name", Control: schema.ControlText, Validation: schema.ValidationString, Required: true, OptionsLabel: true},
		{Name: "age", Label: "Age", Control: schema.ControlNumber, Validation: schema.ValidationNumber},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Customer mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, collector.HasErrors())
}

func TestAssignmentOrderWins(t *testing.T) {
	engine, _, file := load(t, `
class Ordered {
  constructor(a: string, b: number, c: boolean) {
    this.c = c;
    this.a = a;
    this.b = b;
  }
}
`)
	props := engine.Extract(class(t, file, "Ordered"))
	var names []string
	for _, p := range props {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)

	again := engine.Extract(class(t, file, "Ordered"))
	assert.Empty(t, cmp.Diff(props, again))
}

func TestAnnotations(t *testing.T) {
	engine, _, file := load(t, `
class Flags {
  @primaryKey @required @optionsLabel all: string;
  @unknown none: string;
  constructor(all: string, none: string, loose: string) {
    this.all = all;
    this.none = none;
    this.loose = loose;
  }
}
`)
	props := engine.Extract(class(t, file, "Flags"))
	require.Len(t, props, 3)
	assert.True(t, props[0].PrimaryKey && props[0].Required && props[0].OptionsLabel)
	assert.False(t, props[1].PrimaryKey || props[1].Required || props[1].OptionsLabel)
	assert.Equal(t, "loose", props[2].Name)
	assert.False(t, props[2].PrimaryKey || props[2].Required || props[2].OptionsLabel)
}

func TestStructuralAbsence(t *testing.T) {
	engine, collector, file := load(t, `
class NoCtor { name: string; }
class Partial {
  constructor(name: string) {
    this.name = name;
    this.ghost = name;
    this.total = 1 + 2;
  }
}
`)
	assert.Empty(t, engine.Extract(class(t, file, "NoCtor")))
	assert.NotNil(t, engine.Extract(class(t, file, "NoCtor")))
	collector.Reset()

	engine.Extract(class(t, file, "NoCtor"))
	assert.Equal(t, []string{"No constructor found for class: NoCtor"}, collector.Messages(diagnostic.SeverityWarning))
	collector.Reset()

	props := engine.Extract(class(t, file, "Partial"))
	require.Len(t, props, 1)
	assert.Equal(t, "name", props[0].Name)
	assert.Equal(t, []string{"No matching parameter for property ghost in class Partial"}, collector.Messages(diagnostic.SeverityWarning))
	assert.Len(t, collector.Messages(diagnostic.SeverityDebug), 1)
}

func TestUntypedParameterDefaultsToText(t *testing.T) {
	engine, _, file := load(t, `class Loose { constructor(value) { this.value = value } }`)
	props := engine.Extract(class(t, file, "Loose"))
	require.Len(t, props, 1)
	assert.Equal(t, schema.ControlText, props[0].Control)
	assert.Equal(t, schema.ValidationString, props[0].Validation)
}

func TestNestedTypes(t *testing.T) {
	engine, collector, file := load(t, `
enum Status { Active, Inactive }
class Item {
  sku: string;
  qty: number;
  constructor(sku: string, qty: number) { this.sku = sku; this.qty = qty; }
}
class Nothing {}
interface Address { street: string; zip?: number }
class Order {
  constructor(
    items: Item[],
    tags: string[],
    status: Status,
    item: Item,
    empties: Nothing[],
    nothing: Nothing,
    address: Address,
    geo: { lat: number; lng: number },
    mystery: Mystery,
    either: Item | undefined,
  ) {
    this.items = items;
    this.tags = tags;
    this.status = status;
    this.item = item;
    this.empties = empties;
    this.nothing = nothing;
    this.address = address;
    this.geo = geo;
    this.mystery = mystery;
    this.either = either;
  }
}
`)
	props := engine.Extract(class(t, file, "Order"))
	require.Len(t, props, 10)
	byName := map[string]schema.Property{}
	for _, p := range props {
		byName[p.Name] = p
	}

	items := byName["items"]
	assert.Equal(t, schema.ControlMultiSelect, items.Control)
	assert.Equal(t, schema.ValidationArray, items.Validation)
	require.Len(t, items.Properties, 2)
	assert.Equal(t, "sku", items.Properties[0].Name)

	tags := byName["tags"]
	assert.Equal(t, schema.ControlMultiSelect, tags.Control)
	assert.Nil(t, tags.Properties)

	status := byName["status"]
	assert.Equal(t, schema.ControlSelect, status.Control)
	assert.Equal(t, schema.ValidationString, status.Validation)
	assert.Nil(t, status.Properties)

	item := byName["item"]
	assert.Equal(t, schema.ValidationObject, item.Validation)
	assert.Len(t, item.Properties, 2)

	empties := byName["empties"]
	assert.Equal(t, schema.ControlMultiSelect, empties.Control)
	assert.NotNil(t, empties.Properties)
	assert.Empty(t, empties.Properties)

	for _, name := range []string{"nothing", "mystery", "either"} {
		p := byName[name]
		assert.Equal(t, schema.ControlSelect, p.Control, name)
		assert.Equal(t, schema.ValidationObject, p.Validation, name)
		assert.Nil(t, p.Properties, name)
	}

	address := byName["address"]
	require.Len(t, address.Properties, 2)
	assert.Equal(t, "zip", address.Properties[1].Name)

	assert.Len(t, byName["geo"].Properties, 2)
	assert.False(t, collector.HasErrors())
}

func TestInterfaceInheritsBaseMembers(t *testing.T) {
	engine, collector, file := load(t, `
interface Stamped { createdAt: Date }
interface Base extends Stamped { id: number; createdAt: Date }
interface Named { name: string }
interface Child extends Base, Named { id: string; nickname?: string }
class Family {
  constructor(child: Child, kids: Child[]) {
    this.child = child;
    this.kids = kids;
  }
}
`)
	props := engine.Extract(class(t, file, "Family"))
	require.Len(t, props, 2)

	names := func(p schema.Property) []string {
		var out []string
		for _, sub := range p.Properties {
			out = append(out, sub.Name)
		}
		return out
	}
	want := []string{"createdAt", "id", "name", "nickname"}
	if diff := cmp.Diff(want, names(props[0])); diff != "" {
		t.Fatalf("child members mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, names(props[1])); diff != "" {
		t.Fatalf("kids members mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, schema.ControlMultiSelect, props[1].Control)
	assert.Equal(t, schema.ValidationDate, props[0].Properties[0].Validation)
	assert.Equal(t, schema.ValidationNumber, props[0].Properties[1].Validation, "base declaration of id wins")
	assert.False(t, collector.HasErrors())
}

func TestUnresolvableSymbolSkipsProperty(t *testing.T) {
	engine, collector, file := load(t, `
import { Remote } from "./remote";
import { Decimal } from "decimal.js";
class Linked {
  constructor(remote: Remote, price: Decimal, name: string) {
    this.remote = remote;
    this.price = price;
    this.name = name;
  }
}
`)
	props := engine.Extract(class(t, file, "Linked"))
	require.Len(t, props, 1)
	assert.Equal(t, "name", props[0].Name)

	var errs []diagnostic.Diagnostic
	for _, d := range collector.Diagnostics() {
		if d.Severity == diagnostic.SeverityError {
			errs = append(errs, d)
		}
	}
	require.Len(t, errs, 2)
	assert.Equal(t, "remote", errs[0].Property)
	assert.True(t, strings.HasPrefix(errs[0].Message, "Failed to resolve type for property remote in class Linked: "))
	assert.True(t, errors.Is(errs[1].Err, checker.ErrUnresolvableSymbol))
}

func TestResolveReturnsUnresolvableError(t *testing.T) {
	engine, _, file := load(t, `
import { Remote } from "./remote";
class Holder { constructor(list: Remote[]) {} }
`)
	ctor, _ := class(t, file, "Holder").Constructor()
	param, _ := ctor.Param("list")
	_, err := inference.Resolve(engine.Program(), file.Path, param.Type, engine.Extract)
	require.Error(t, err)
	assert.True(t, errors.Is(err, checker.ErrUnresolvableSymbol))
}

func TestCycleGuard(t *testing.T) {
	engine, collector, file := load(t, `
class Node {
  label: string;
  parent: Node;
  children: Node[];
  constructor(label: string, parent: Node, children: Node[]) {
    this.label = label;
    this.parent = parent;
    this.children = children;
  }
}
`)
	props := engine.Extract(class(t, file, "Node"))
	require.Len(t, props, 3)

	parent := props[1]
	assert.Equal(t, schema.ValidationObject, parent.Validation)
	assert.NotNil(t, parent.Properties)
	assert.Empty(t, parent.Properties)

	children := props[2]
	assert.Equal(t, schema.ValidationArray, children.Validation)
	assert.NotNil(t, children.Properties)
	assert.Empty(t, children.Properties)

	warnings := collector.Messages(diagnostic.SeverityWarning)
	require.Len(t, warnings, 2)
	assert.Equal(t, "Circular reference to Node while extracting Node; emitting empty stub", warnings[0])
}

func TestDepthCeiling(t *testing.T) {
	file, errs := tsparse.Parse("chain.ts", `
class A { b: B; constructor(b: B) { this.b = b } }
class B { c: C; constructor(c: C) { this.c = c } }
class C { name: string; constructor(name: string) { this.name = name } }
`)
	require.Empty(t, errs)
	collector := diagnostic.NewCollector()
	engine := inference.NewEngine(checker.NewProgram([]*tsparse.SourceFile{file}),
		inference.WithSink(collector), inference.WithMaxDepth(2))

	props := engine.Extract(class(t, file, "A"))
	require.Len(t, props, 1)
	require.Len(t, props[0].Properties, 1)
	assert.Empty(t, props[0].Properties[0].Properties)
	assert.NotNil(t, props[0].Properties[0].Properties)
	assert.Len(t, collector.Messages(diagnostic.SeverityWarning), 1)
}

func TestWalker(t *testing.T) {
	engine, collector, file := load(t, `
import { x } from "./x";
class Customer {
  constructor(name: string) { this.name = name }
}
class Empty { constructor() {} }
function helper() {}
`)

	type call struct {
		class string
		props int
	}
	var calls []call
	renderer := inference.RendererFunc(func(_ context.Context, name string, props []schema.Property) error {
		calls = append(calls, call{name, len(props)})
		return nil
	})

	walker := inference.NewWalker(engine, renderer, collector)
	require.NoError(t, walker.Walk(context.Background(), file))

	assert.Equal(t, []call{{"Customer", 1}}, calls)
	assert.Equal(t, []string{
		"Unhandled node kind: ImportDeclaration",
		"Processing class: Customer",
		"Processing class: Empty",
		"Unhandled node kind: FunctionDeclaration",
	}, collector.Messages(diagnostic.SeverityInfo))
	assert.Equal(t, []string{
		"No properties found for class Empty",
		"Skipping EndOfFileToken node.",
	}, collector.Messages(diagnostic.SeverityWarning))
}

func TestWalkerContinuesPastRenderFailures(t *testing.T) {
	engine, collector, file := load(t, `
class A { constructor(a: string) { this.a = a } }
class B { constructor(b: string) { this.b = b } }
`)
	boom := errors.New("boom")
	var rendered []string
	renderer := inference.RendererFunc(func(_ context.Context, name string, _ []schema.Property) error {
		rendered = append(rendered, name)
		if name == "A" {
			return boom
		}
		return nil
	})

	err := inference.NewWalker(engine, renderer, collector).Walk(context.Background(), file)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"A", "B"}, rendered)
	assert.Equal(t, 1, collector.Count(diagnostic.SeverityError))
}

func TestWalkerStopsOnCancel(t *testing.T) {
	engine, _, file := load(t, `class A { constructor(a: string) { this.a = a } }`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := inference.NewWalker(engine, inference.RendererFunc(func(context.Context, string, []schema.Property) error {
		called = true
		return nil
	}), nil).Walk(ctx, file)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
