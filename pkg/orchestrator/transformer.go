package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-typescaf/pkg/schema"
)

// Transformer rewrites the inferred properties of a class before they are
// rendered. Implementations may drop, reorder or re-annotate properties.
type Transformer interface {
	Transform(ctx context.Context, className string, props []schema.Property) ([]schema.Property, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, className string, props []schema.Property) ([]schema.Property, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, className string, props []schema.Property) ([]schema.Property, error) {
	if fn == nil {
		return props, nil
	}
	return fn(ctx, className, props)
}

// JSONPresetTransformer applies declarative per-class patches loaded from a
// JSON document:
//
//	{
//	  "classes": {
//	    "Customer": {
//	      "exclude": ["internalNotes"],
//	      "required": ["email"],
//	      "optionsLabel": "name"
//	    }
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Classes map[string]jsonClassPatch `json:"classes"`
}

type jsonClassPatch struct {
	Exclude      []string `json:"exclude"`
	Required     []string `json:"required"`
	OptionsLabel string   `json:"optionsLabel"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patch for className. Classes without a patch pass
// through untouched. Naming a property the class does not have is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, className string, props []schema.Property) ([]schema.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	patch, ok := t.document.Classes[className]
	if !ok {
		return props, nil
	}

	known := make(map[string]bool, len(props))
	for _, p := range props {
		known[p.Name] = true
	}
	check := func(names ...string) error {
		for _, name := range names {
			if !known[name] {
				return fmt.Errorf("json preset transformer: %s has no property %q", className, name)
			}
		}
		return nil
	}
	if err := check(patch.Exclude...); err != nil {
		return nil, err
	}
	if err := check(patch.Required...); err != nil {
		return nil, err
	}
	if patch.OptionsLabel != "" {
		if err := check(patch.OptionsLabel); err != nil {
			return nil, err
		}
	}

	excluded := toSet(patch.Exclude)
	required := toSet(patch.Required)
	out := make([]schema.Property, 0, len(props))
	for _, p := range props {
		if excluded[p.Name] {
			continue
		}
		if required[p.Name] {
			p.Required = true
		}
		if patch.OptionsLabel != "" {
			p.OptionsLabel = p.Name == patch.OptionsLabel
		}
		out = append(out, p)
	}
	return out, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
