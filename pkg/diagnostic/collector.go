package diagnostic

import (
	"fmt"
	"sync"
)

// Collector records diagnostics in arrival order.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report implements Sink.
func (c *Collector) Report(d Diagnostic) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.diagnostics = append(c.diagnostics, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of everything recorded so far.
func (c *Collector) Diagnostics() []Diagnostic {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diagnostics...)
}

// Messages returns the messages recorded at the given severity.
func (c *Collector) Messages(sev Severity) []string {
	var out []string
	for _, d := range c.Diagnostics() {
		if d.Severity == sev {
			out = append(out, d.Message)
		}
	}
	return out
}

// Count returns the number of diagnostics at the given severity.
func (c *Collector) Count(sev Severity) int {
	return len(c.Messages(sev))
}

// HasErrors reports whether any error diagnostics were recorded.
func (c *Collector) HasErrors() bool {
	return c.Count(SeverityError) > 0
}

// Reset drops all recorded diagnostics.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.diagnostics = nil
	c.mu.Unlock()
}

// Summary returns a one-line count summary.
func (c *Collector) Summary() string {
	errs := c.Count(SeverityError)
	warns := c.Count(SeverityWarning)
	switch {
	case errs == 0 && warns == 0:
		return ""
	case errs == 0:
		return fmt.Sprintf("%d warning(s)", warns)
	case warns == 0:
		return fmt.Sprintf("%d error(s)", errs)
	default:
		return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
	}
}
