// Package diagnostic carries the leveled messages produced while inferring
// schemas. The inference core reports through a Sink and never logs directly.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic. Values are ordered
// so a threshold comparison filters noisier levels.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Category classifies diagnostics for filtering.
type Category string

const (
	CategoryStructure  Category = "structural-absence"
	CategoryResolution Category = "unresolvable-symbol"
	CategoryCycle      Category = "circular-reference"
	CategoryParse      Category = "parse"
	CategoryWalk       Category = "walk"
	CategoryRender     Category = "render"
)

// Diagnostic represents a structured diagnostic message.
type Diagnostic struct {
	Severity Severity
	Category Category
	File     string
	Line     int
	Column   int
	Class    string
	Property string
	Message  string
	Err      error
}

// String formats the diagnostic for display.
func (d Diagnostic) String() string {
	var sb strings.Builder

	if d.File != "" {
		sb.WriteString(d.File)
		if d.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", d.Line))
			if d.Column > 0 {
				sb.WriteString(fmt.Sprintf(":%d", d.Column))
			}
		}
		sb.WriteString(" - ")
	}

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")

	if d.Category != "" {
		sb.WriteString("[")
		sb.WriteString(string(d.Category))
		sb.WriteString("] ")
	}

	sb.WriteString(d.Message)
	return sb.String()
}

// Sink receives diagnostics. Implementations must be safe for concurrent use.
type Sink interface {
	Report(Diagnostic)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(Diagnostic)

// Report calls f(d).
func (f SinkFunc) Report(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Tee fans a diagnostic out to every non-nil sink.
func Tee(sinks ...Sink) Sink {
	var active []Sink
	for _, sink := range sinks {
		if sink != nil {
			active = append(active, sink)
		}
	}
	return SinkFunc(func(d Diagnostic) {
		for _, sink := range active {
			sink.Report(d)
		}
	})
}

// WithFile stamps the file path on diagnostics that do not carry one.
func WithFile(sink Sink, file string) Sink {
	if sink == nil {
		sink = Discard
	}
	return SinkFunc(func(d Diagnostic) {
		if d.File == "" {
			d.File = file
		}
		sink.Report(d)
	})
}
