package checker_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-typescaf/internal/checker"
	"github.com/goliatone/go-typescaf/internal/tsparse"
)

func parse(t *testing.T, path, src string) *tsparse.SourceFile {
	t.Helper()
	file, errs := tsparse.Parse(path, src)
	require.Empty(t, errs)
	return file
}

// paramType returns the annotation of a constructor parameter of class.
func paramType(t *testing.T, file *tsparse.SourceFile, class, param string) tsparse.TypeNode {
	t.Helper()
	for _, c := range file.Classes() {
		if c.Name != class {
			continue
		}
		ctor, ok := c.Constructor()
		require.True(t, ok)
		p, ok := ctor.Param(param)
		require.True(t, ok, "param %s", param)
		return p.Type
	}
	t.Fatalf("class %s not found", class)
	return nil
}

const models = `
import { Remote } from "./remote";
import { Missing } from "./nowhere";
import { Decimal } from "decimal.js";
import * as shapes from "./shapes";

enum Status { Active, Inactive }
interface Named { name: string; greet(): void }
type Point = { x: number; y: number };
type Loop = Other;
type Other = Loop;
type Alias = Holder;

class Holder {
  value: string;
  constructor(value: string) { this.value = value }
}

class Empty {}

class Subject {
  constructor(
    a: string,
    b: Holder[],
    c: Array<Holder> | null,
    d: Status,
    e: Named,
    f: Point,
    g: Unknown,
    h: Remote,
    i: Missing,
    j: Decimal,
    k: Loop,
    l: Alias,
    m: shapes.Circle,
    n: { inner: boolean },
    o: Holder | undefined,
    p: Status.Active,
  ) {}
}
`

func newProgram(t *testing.T) (*checker.Program, *tsparse.SourceFile) {
	t.Helper()
	root := parse(t, "src/models.ts", models)
	remote := parse(t, "src/remote.ts", `export class Remote { id: number; constructor(id: number) { this.id = id } }`)
	shapes := parse(t, "src/shapes/index.ts", `export interface Circle { radius: number }`)

	host := checker.HostFunc(func(modulePath string) (*tsparse.SourceFile, bool) {
		switch modulePath {
		case "src/remote":
			return remote, true
		case "src/shapes":
			return shapes, true
		}
		return nil, false
	})
	return checker.NewProgram([]*tsparse.SourceFile{root}, checker.WithHost(host)), root
}

func TestTypeClassification(t *testing.T) {
	program, root := newProgram(t)
	typeOf := func(param string) *checker.Type {
		return program.TypeOf(root.Path, paramType(t, root, "Subject", param))
	}

	a := typeOf("a")
	assert.Equal(t, checker.FlagPrimitive, a.Flags())

	b := typeOf("b")
	require.True(t, b.IsArray())
	assert.True(t, b.ArrayElementType().IsClassOrInterface())

	c := typeOf("c")
	require.True(t, c.IsArray(), "nullable generic array")
	assert.Equal(t, "Array<Holder> | null", c.Text())

	assert.True(t, typeOf("d").IsEnum())
	assert.True(t, typeOf("p").IsEnum())

	e := typeOf("e")
	assert.True(t, e.IsClassOrInterface())
	n, err := program.MemberCount(e)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f := typeOf("f")
	assert.True(t, f.IsObject())
	assert.Equal(t, "Point", f.Symbol().Name)

	g := typeOf("g")
	assert.False(t, g.IsArray() || g.IsClassOrInterface() || g.IsObject() || g.IsEnum())

	h := typeOf("h")
	require.True(t, h.IsClassOrInterface())
	decl, err := h.Declaration()
	require.NoError(t, err)
	assert.Equal(t, "Remote", decl.DeclName())
	assert.Equal(t, "src/remote.ts", program.FileOf(decl))

	l := typeOf("l")
	decl, err = l.Declaration()
	require.NoError(t, err)
	assert.Equal(t, "Holder", decl.DeclName())

	m := typeOf("m")
	require.True(t, m.IsClassOrInterface())
	decl, err = m.Declaration()
	require.NoError(t, err)
	assert.Equal(t, "Circle", decl.DeclName())

	o := typeOf("o")
	assert.Equal(t, checker.FlagUnion, o.Flags())

	nType := typeOf("n")
	assert.True(t, nType.IsObject())
	count, err := program.MemberCount(nType)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUnresolvableSymbols(t *testing.T) {
	program, root := newProgram(t)

	for _, param := range []string{"i", "j", "k"} {
		typ := program.TypeOf(root.Path, paramType(t, root, "Subject", param))
		assert.True(t, typ.IsClassOrInterface(), param)
		_, err := typ.Declaration()
		require.Error(t, err, param)
		assert.True(t, errors.Is(err, checker.ErrUnresolvableSymbol), param)
	}
}

func TestLookupAndMemberCounts(t *testing.T) {
	program, root := newProgram(t)

	sym, err := program.Lookup(root.Path, "Empty")
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, checker.SymbolClass, sym.Kind)

	empty := program.TypeOf(root.Path, paramType(t, parse(t, "src/models.ts", "class X { constructor(e: Empty) {} }"), "X", "e"))
	count, err := program.MemberCount(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	missing, err := program.Lookup(root.Path, "Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInheritedMembersAreCounted(t *testing.T) {
	file := parse(t, "inherit.ts", `
class Base { id: number; constructor() {} }
class Child extends Base { name: string; constructor() { super() } }
interface A { a: string }
interface B extends A { b: string }
class Use { constructor(c: Child, b: B) {} }
`)
	program := checker.NewProgram([]*tsparse.SourceFile{file})

	child := program.TypeOf(file.Path, paramType(t, file, "Use", "c"))
	n, err := program.MemberCount(child)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b := program.TypeOf(file.Path, paramType(t, file, "Use", "b"))
	n, err = program.MemberCount(b)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
