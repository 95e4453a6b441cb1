package inference

import (
	"fmt"

	"github.com/goliatone/go-typescaf/internal/checker"
	"github.com/goliatone/go-typescaf/internal/tsparse"
	"github.com/goliatone/go-typescaf/pkg/schema"
)

// ExtractFunc extracts the properties of a nested declaration. Resolve calls
// it for array elements and object-like types.
type ExtractFunc func(decl tsparse.Declaration) []schema.Property

var (
	arrayDescriptor  = schema.TypeDescriptor{Control: schema.ControlMultiSelect, Validation: schema.ValidationArray}
	objectDescriptor = schema.TypeDescriptor{Control: schema.ControlSelect, Validation: schema.ValidationObject}
	enumDescriptor   = schema.TypeDescriptor{Control: schema.ControlSelect, Validation: schema.ValidationString}
)

// Resolve maps a type annotation found in file to its descriptor. The mapping
// table wins over structure; arrays become multi-selects, object-like types
// selects with nested properties, enums string selects, and anything else an
// object select without nested properties.
//
// The returned error wraps checker.ErrUnresolvableSymbol when the type names
// a class, interface or array element whose declaration cannot be found.
func Resolve(program *checker.Program, file string, node tsparse.TypeNode, extract ExtractFunc) (schema.TypeDescriptor, error) {
	if node == nil {
		return schema.TypeDescriptor{Control: schema.ControlText, Validation: schema.ValidationString}, nil
	}
	text := StripNullable(node.Text())
	if desc, ok := LookupMapping(text); ok {
		return desc, nil
	}

	typ := program.TypeOf(file, node)

	if typ.IsArray() {
		desc := arrayDescriptor
		elem := typ.ArrayElementType()
		if elem != nil && (elem.IsClassOrInterface() || elem.IsObject()) {
			decl, err := elem.Declaration()
			if err != nil {
				return schema.TypeDescriptor{}, fmt.Errorf("inference: element type of %q: %w", text, err)
			}
			desc.Properties = nonNil(extract(decl))
		}
		return desc, nil
	}

	if typ.IsClassOrInterface() || typ.IsObject() {
		decl, err := typ.Declaration()
		if err != nil {
			return schema.TypeDescriptor{}, fmt.Errorf("inference: type %q: %w", text, err)
		}
		members, err := program.MemberCount(typ)
		if err != nil {
			return schema.TypeDescriptor{}, fmt.Errorf("inference: members of %q: %w", text, err)
		}
		if members > 0 {
			desc := objectDescriptor
			desc.Properties = nonNil(extract(decl))
			return desc, nil
		}
	}

	if typ.IsEnum() {
		return enumDescriptor, nil
	}

	return objectDescriptor, nil
}

func nonNil(props []schema.Property) []schema.Property {
	if props == nil {
		return []schema.Property{}
	}
	return props
}
