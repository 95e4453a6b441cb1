// Package naming derives REST resource and display names from class names.
package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Resource returns the URL segment for a class: plural, dash separated,
// lower case ("OrderItem" -> "order-items").
func Resource(className string) string {
	className = strings.TrimSpace(className)
	if className == "" {
		return ""
	}
	return inflect.Dasherize(inflect.Pluralize(className))
}

// Plural pluralises the last word of name, keeping its case.
func Plural(name string) string {
	if strings.TrimSpace(name) == "" {
		return name
	}
	return inflect.Pluralize(name)
}

// Title splits a class name into words ("OrderItem" -> "Order Item").
func Title(className string) string {
	if strings.TrimSpace(className) == "" {
		return ""
	}
	return inflect.Titleize(className)
}

// Component returns an exported JS identifier for className.
func Component(className string) string {
	if className == "" || className == "default" {
		return "DefaultComponent"
	}
	return inflect.Camelize(className)
}
