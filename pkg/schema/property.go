package schema

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeDescriptor is the resolved control/validation pair for a type
// reference. Properties is nil when the type carries no nested schema and an
// empty, non-nil slice when it does but nothing was extractable.
type TypeDescriptor struct {
	Control    ControlKind
	Validation ValidationKind
	Properties []Property
}

// Annotations captures the recognised member decorators of a class field.
type Annotations struct {
	PrimaryKey   bool
	Required     bool
	OptionsLabel bool
}

// Property describes one form field inferred from a class constructor.
type Property struct {
	Name         string         `json:"name"`
	Label        string         `json:"label"`
	Control      ControlKind    `json:"type"`
	Validation   ValidationKind `json:"yupType"`
	Required     bool           `json:"required"`
	PrimaryKey   bool           `json:"primaryKey"`
	OptionsLabel bool           `json:"optionsLabel"`
	Properties   []Property     `json:"properties"`
}

// NewProperty assembles a Property, deriving its label from the name.
func NewProperty(name string, desc TypeDescriptor, ann Annotations) Property {
	return Property{
		Name:         name,
		Label:        DeriveLabel(name),
		Control:      desc.Control,
		Validation:   desc.Validation,
		Required:     ann.Required,
		PrimaryKey:   ann.PrimaryKey,
		OptionsLabel: ann.OptionsLabel,
		Properties:   desc.Properties,
	}
}

// Descriptor returns the control/validation pair carried by the property.
func (p Property) Descriptor() TypeDescriptor {
	return TypeDescriptor{
		Control:    p.Control,
		Validation: p.Validation,
		Properties: p.Properties,
	}
}

// DeriveLabel upper-cases the first character of name and keeps the rest.
func DeriveLabel(name string) string {
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return cases.Upper(language.Und).String(string(r)) + name[size:]
}

// OptionsLabelProperty returns the first property flagged as the options
// label, if any.
func OptionsLabelProperty(props []Property) (Property, bool) {
	for _, prop := range props {
		if prop.OptionsLabel {
			return prop, true
		}
	}
	return Property{}, false
}
