package uischema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML overlay files.
// When fsys is nil or no overlay files are present, the returned store is
// empty. A class defined in more than one file is an error.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{classes: make(map[string]Class)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isOverlayFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, raw := range doc.Classes {
			className := strings.TrimSpace(name)
			if className == "" {
				return fmt.Errorf("uischema: file %s defines an empty class name", path)
			}
			if existing, exists := store.classes[className]; exists {
				return fmt.Errorf("uischema: duplicate class %q (files %s and %s)", className, existing.Source, path)
			}

			class, err := normaliseClass(raw, className, path)
			if err != nil {
				return err
			}
			store.classes[className] = class
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store, nil
		}
		return nil, err
	}

	return store, nil
}

// Class returns the overlay for the supplied class name.
func (s *Store) Class(name string) (Class, bool) {
	if s == nil {
		return Class{}, false
	}
	class, ok := s.classes[name]
	return class, ok
}

// Classes lists the overlaid class names.
func (s *Store) Classes() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any classes.
func (s *Store) Empty() bool {
	return s == nil || len(s.classes) == 0
}

type documentFile struct {
	Classes map[string]classFile `json:"classes" yaml:"classes"`
}

type classFile struct {
	Title      string           `json:"title" yaml:"title"`
	FieldOrder []string         `json:"fieldOrder" yaml:"fieldOrder"`
	Fields     map[string]Field `json:"fields" yaml:"fields"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseClass(raw classFile, name, source string) (Class, error) {
	class := Class{
		Name:   name,
		Source: source,
		Title:  sanitizeText(raw.Title),
		Fields: make(map[string]Field, len(raw.Fields)),
	}

	seen := make(map[string]bool, len(raw.FieldOrder))
	for idx, entry := range raw.FieldOrder {
		value := strings.TrimSpace(entry)
		if value == "" {
			return Class{}, fmt.Errorf("uischema: class %q (file %s) field order has an empty entry at index %d", name, source, idx)
		}
		if seen[value] {
			return Class{}, fmt.Errorf("uischema: class %q (file %s) lists %q twice in field order", name, source, value)
		}
		seen[value] = true
		class.FieldOrder = append(class.FieldOrder, value)
	}

	for key, cfg := range raw.Fields {
		field := strings.TrimSpace(key)
		if field == "" {
			return Class{}, fmt.Errorf("uischema: class %q (file %s) has an empty field name", name, source)
		}
		if _, exists := class.Fields[field]; exists {
			return Class{}, fmt.Errorf("uischema: class %q (file %s) defines duplicate field %q", name, source, field)
		}
		class.Fields[field] = Field{
			Label:       sanitizeText(cfg.Label),
			Placeholder: sanitizeText(cfg.Placeholder),
			HelpText:    sanitizeText(cfg.HelpText),
			Hidden:      cfg.Hidden,
		}
	}

	return class, nil
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
