package uischema

import (
	"github.com/goliatone/go-typescaf/pkg/render"
)

// Decorator applies class overlays to prepared components.
type Decorator struct {
	store *Store
}

var _ render.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by the provided store. When store
// is nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate applies the overlay registered for the component's class. Fields
// named by the overlay but missing from the component are ignored.
func (d *Decorator) Decorate(component *render.Component) error {
	if d == nil || d.store.Empty() || component == nil {
		return nil
	}

	class, ok := d.store.Class(component.ClassName)
	if !ok {
		return nil
	}

	if class.Title != "" {
		component.Title = class.Title
	}
	for name, cfg := range class.Fields {
		field, ok := component.Field(name)
		if !ok {
			continue
		}
		if cfg.Label != "" {
			field.Label = cfg.Label
		}
		if cfg.Placeholder != "" {
			field.Placeholder = cfg.Placeholder
		}
		if cfg.HelpText != "" {
			field.HelpText = cfg.HelpText
		}
		if cfg.Hidden {
			field.Hidden = true
		}
	}
	if len(class.FieldOrder) > 0 {
		component.Fields = orderFields(component.Fields, class.FieldOrder)
	}
	return nil
}

// orderFields moves listed fields into the given order. Unlisted fields keep
// their relative order and go where RestMarker appears, or last.
func orderFields(fields []render.Field, order []string) []render.Field {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}

	listed := make(map[string]bool, len(order))
	for _, name := range order {
		listed[name] = true
	}
	var rest []render.Field
	for _, f := range fields {
		if !listed[f.Name] {
			rest = append(rest, f)
		}
	}

	out := make([]render.Field, 0, len(fields))
	restPlaced := false
	for _, name := range order {
		if name == RestMarker {
			out = append(out, rest...)
			restPlaced = true
			continue
		}
		if i, ok := index[name]; ok {
			out = append(out, fields[i])
		}
	}
	if !restPlaced {
		out = append(out, rest...)
	}
	return out
}
