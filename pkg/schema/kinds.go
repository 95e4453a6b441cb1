package schema

// ControlKind names the UI control a property renders as.
type ControlKind string

const (
	ControlText        ControlKind = "text"
	ControlNumber      ControlKind = "number"
	ControlDate        ControlKind = "date"
	ControlCheckbox    ControlKind = "checkbox"
	ControlSelect      ControlKind = "select"
	ControlMultiSelect ControlKind = "multi-select"
)

// IsChoice reports whether the control picks values from a set of options.
func (k ControlKind) IsChoice() bool {
	return k == ControlSelect || k == ControlMultiSelect
}

// ValidationKind names the value shape used by the generated validation
// schema.
type ValidationKind string

const (
	ValidationString  ValidationKind = "string"
	ValidationNumber  ValidationKind = "number"
	ValidationBoolean ValidationKind = "boolean"
	ValidationDate    ValidationKind = "date"
	ValidationArray   ValidationKind = "array"
	ValidationObject  ValidationKind = "object"
	ValidationMixed   ValidationKind = "mixed"
)
