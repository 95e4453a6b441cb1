package uischema

// Store keeps the parsed class overlays. It is safe for concurrent readers
// when treated as immutable after construction.
type Store struct {
	classes map[string]Class
}

// Class holds the overlay for one class.
type Class struct {
	Name       string
	Source     string
	Title      string
	FieldOrder []string
	Fields     map[string]Field
}

// Field overrides the view of one property. Empty strings leave the
// inferred value in place.
type Field struct {
	Label       string `json:"label" yaml:"label"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	HelpText    string `json:"helpText" yaml:"helpText"`
	Hidden      bool   `json:"hidden" yaml:"hidden"`
}

// RestMarker in a field order stands for every field not listed.
const RestMarker = "*"
