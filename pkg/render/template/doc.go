// Package template defines the engine contract component targets render
// through. The gotemplate subpackage provides the pongo2-backed engine.
package template
