// Package uischema loads UI overlays that adjust generated components
// without touching the TypeScript sources: class titles, field labels,
// placeholders, help text, visibility and field order. Overlays live in
// .type-scaf/config/ui as JSON or YAML and are applied as a render
// decorator.
package uischema
