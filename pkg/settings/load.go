package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

var candidateFiles = []string{"settings.json", "settings.yaml", "settings.yml"}

// LoadFS reads the first settings file found in dir of fsys, validates it
// and returns normalised settings. ErrNotFound is returned when no
// candidate file exists.
func LoadFS(fsys fs.FS, dir string) (Settings, string, error) {
	for _, name := range candidateFiles {
		file := path.Join(dir, name)
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Settings{}, file, fmt.Errorf("settings: read %s: %w", file, err)
		}
		s, err := Parse(data, file)
		return s, file, err
	}
	return Settings{}, "", ErrNotFound
}

// Parse decodes a JSON or YAML settings document, validates it and fills
// defaults.
func Parse(data []byte, source string) (Settings, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Settings{}, fmt.Errorf("settings: file %s is empty", source)
	}

	raw, err := decodeJSON(data)
	if err != nil {
		raw = nil
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil {
			return Settings{}, fmt.Errorf("settings: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	if err := Validate(raw); err != nil {
		return Settings{}, fmt.Errorf("%w (file %s)", err, source)
	}

	var s Settings
	// Round-trip through JSON so YAML and JSON share the json tags.
	normalised, err := json.Marshal(raw)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: normalise %s: %w", source, err)
	}
	if err := json.Unmarshal(normalised, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: decode %s: %w", source, err)
	}
	s.Normalize()
	return s, nil
}

// Marshal renders settings as indented JSON, the format init writes.
func Marshal(s Settings) ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("settings: marshal: %w", err)
	}
	return append(out, '\n'), nil
}

// decodeJSON keeps integers integral so the schema's int constraints hold.
func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return numbers(raw).(map[string]any), nil
}

func numbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = numbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = numbers(inner)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}
