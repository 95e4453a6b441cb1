// Package orchestrator wires settings, source discovery, parsing, schema
// inference and component rendering into a single Generate call, with
// functional options for callers that need to swap any stage.
package orchestrator
