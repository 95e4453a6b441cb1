package render

import (
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-typescaf/internal/naming"
	"github.com/goliatone/go-typescaf/pkg/mockdata"
	"github.com/goliatone/go-typescaf/pkg/schema"
	"github.com/goliatone/go-typescaf/pkg/settings"
)

// Field is the template view of one inferred property. Overlay decorators
// fill Placeholder, HelpText and Hidden and may replace Label.
type Field struct {
	Name        string                `json:"name"`
	Label       string                `json:"label"`
	Type        schema.ControlKind    `json:"type"`
	YupType     schema.ValidationKind `json:"yupType"`
	TSType      string                `json:"tsType"`
	Required    bool                  `json:"required"`
	PrimaryKey  bool                  `json:"primaryKey"`
	Hidden      bool                  `json:"hidden"`
	Placeholder string                `json:"placeholder,omitempty"`
	HelpText    string                `json:"helpText,omitempty"`
	Properties  []schema.Property     `json:"properties"`
}

// Theme carries the selected template set tokens into templates.
type Theme struct {
	Name    string            `json:"name"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens"`
	CSSVars map[string]string `json:"cssVars"`
}

// Component is the data every template of a class renders against.
type Component struct {
	ClassName      string                       `json:"className"`
	ComponentName  string                       `json:"componentName"`
	Title          string                       `json:"title"`
	Resource       string                       `json:"resource"`
	BaseRestAPIURL string                       `json:"baseRestApiUrl"`
	PrimaryKey     string                       `json:"primaryKey,omitempty"`
	Types          []schema.Property            `json:"types"`
	Fields         []Field                      `json:"fields"`
	DefaultValues  map[string]any               `json:"defaultValues"`
	Options        map[string][]mockdata.Record `json:"options"`
	MockData       []mockdata.Record            `json:"mockData"`
	Theme          Theme                        `json:"theme"`
}

// Prepare builds the component view for a class. Option records are
// generated first for every non-key select and multi-select property, from
// that property's sub-properties; default values and mock rows then draw
// from them.
func Prepare(className string, props []schema.Property, cfg settings.Settings, synth *mockdata.Synthesizer) *Component {
	if synth == nil {
		synth = mockdata.New()
	}
	if props == nil {
		props = []schema.Property{}
	}
	optionCount := cfg.MockData.Options
	if optionCount == 0 {
		optionCount = settings.Defaults().MockData.Options
	}
	recordCount := cfg.MockData.Records
	if recordCount == 0 {
		recordCount = settings.Defaults().MockData.Records
	}

	c := &Component{
		ClassName:      className,
		ComponentName:  naming.Component(className),
		Title:          naming.Title(className),
		Resource:       naming.Resource(className),
		BaseRestAPIURL: cfg.BaseRestAPIURL,
		Types:          props,
		Fields:         make([]Field, 0, len(props)),
		DefaultValues:  map[string]any{},
		Options:        map[string][]mockdata.Record{},
		Theme:          Theme{Tokens: map[string]string{}, CSSVars: map[string]string{}},
	}

	for _, prop := range props {
		c.Fields = append(c.Fields, newField(prop))
		if prop.PrimaryKey {
			if c.PrimaryKey == "" {
				c.PrimaryKey = prop.Name
			}
			continue
		}
		if prop.Control.IsChoice() {
			c.Options[prop.Name] = synth.Records(optionCount, prop.Properties, prop.Name, nil)
		}
	}

	for _, prop := range props {
		if prop.PrimaryKey {
			continue
		}
		if prop.Control.IsChoice() {
			picked, ok := synth.Pick(c.Options[prop.Name])
			if !ok {
				continue
			}
			if prop.Control == schema.ControlMultiSelect {
				c.DefaultValues[prop.Name] = []any{picked.Value}
			} else {
				c.DefaultValues[prop.Name] = picked.Value
			}
			continue
		}
		c.DefaultValues[prop.Name] = defaultValue(prop.Validation, synth.Now())
	}

	c.MockData = synth.Records(recordCount, props, className, c.Options)
	return c
}

// ApplyTheme copies the selected tokens into the component.
func (c *Component) ApplyTheme(cfg *theme.RendererConfig) {
	if c == nil || cfg == nil {
		return
	}
	c.Theme.Name = cfg.Theme
	c.Theme.Variant = cfg.Variant
	for k, v := range cfg.Tokens {
		c.Theme.Tokens[k] = v
	}
	for k, v := range cfg.CSSVars {
		c.Theme.CSSVars[k] = v
	}
}

// Field returns the view row for a property name.
func (c *Component) Field(name string) (*Field, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

func newField(prop schema.Property) Field {
	return Field{
		Name:       prop.Name,
		Label:      prop.Label,
		Type:       prop.Control,
		YupType:    prop.Validation,
		TSType:     tsType(prop.Validation),
		Required:   prop.Required,
		PrimaryKey: prop.PrimaryKey,
		Properties: prop.Properties,
	}
}

func defaultValue(kind schema.ValidationKind, now time.Time) any {
	switch kind {
	case schema.ValidationNumber:
		return 0
	case schema.ValidationDate:
		return now.UTC().Format(time.RFC3339Nano)
	case schema.ValidationArray:
		return []any{}
	case schema.ValidationObject:
		return map[string]any{}
	case schema.ValidationBoolean:
		return false
	default:
		return ""
	}
}

func tsType(kind schema.ValidationKind) string {
	switch kind {
	case schema.ValidationString, schema.ValidationDate:
		return "string"
	case schema.ValidationNumber:
		return "number"
	case schema.ValidationBoolean:
		return "boolean"
	case schema.ValidationArray:
		return "unknown[]"
	case schema.ValidationObject:
		return "Record<string, unknown> | null"
	default:
		return "unknown"
	}
}
