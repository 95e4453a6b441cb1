// Package openapi describes inferred classes as an OpenAPI 3 document: one
// component schema per class plus list and item GET paths under the
// configured REST base. It also provides a render target that writes the
// document next to the generated components.
package openapi
