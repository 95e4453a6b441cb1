// Package inference turns TypeScript class declarations into form schemas.
//
// The Engine reads constructor assignments, member decorators and parameter
// types; Resolve maps a single type annotation to a control/validation pair;
// the Walker drives both over a parsed file and hands non-empty schemas to a
// ComponentRenderer.
package inference

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-typescaf/pkg/schema"
)

var mappings = map[string]schema.TypeDescriptor{
	"string":  {Control: schema.ControlText, Validation: schema.ValidationString},
	"number":  {Control: schema.ControlNumber, Validation: schema.ValidationNumber},
	"Date":    {Control: schema.ControlDate, Validation: schema.ValidationDate},
	"boolean": {Control: schema.ControlCheckbox, Validation: schema.ValidationBoolean},
	"bigint":  {Control: schema.ControlNumber, Validation: schema.ValidationNumber},
	"symbol":  {Control: schema.ControlText, Validation: schema.ValidationString},
	"any":     {Control: schema.ControlText, Validation: schema.ValidationMixed},
}

// LookupMapping returns the fixed descriptor for a primitive or built-in type
// name. Matching is exact and case-sensitive.
func LookupMapping(name string) (schema.TypeDescriptor, bool) {
	desc, ok := mappings[name]
	return desc, ok
}

// MappedTypeNames lists the names LookupMapping recognises.
func MappedTypeNames() []string {
	return []string{"string", "number", "Date", "boolean", "bigint", "symbol", "any"}
}

var (
	trailingNull = regexp.MustCompile(`\s*\|\s*null\b`)
	leadingNull  = regexp.MustCompile(`^\s*\|?\s*null\s*\|\s*`)
)

// StripNullable removes `| null` union members from a type's source text.
func StripNullable(text string) string {
	text = leadingNull.ReplaceAllString(text, "")
	text = trailingNull.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
