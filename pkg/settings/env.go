package settings

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvBaseRestAPIURL  = "TYPESCAF_BASE_REST_API_URL"
	EnvTemplateType    = "TYPESCAF_TEMPLATE_TYPE"
	EnvTemplateVariant = "TYPESCAF_TEMPLATE_VARIANT"
)

// LoadDotEnv loads root/.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(root string) error {
	file := filepath.Join(root, ".env")
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(file)
}

// ApplyEnv overlays environment overrides read through lookup.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvBaseRestAPIURL); ok && strings.TrimSpace(v) != "" {
		s.BaseRestAPIURL = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	if v, ok := lookup(EnvTemplateType); ok && strings.TrimSpace(v) != "" {
		s.TemplateType = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvTemplateVariant); ok {
		s.TemplateVariant = strings.TrimSpace(v)
	}
}

// Load reads settings for the project at root: .env first, then the
// settings file under .type-scaf/config, then environment overrides. When
// no settings file exists, defaults are used and ErrNotFound is returned
// alongside them so callers can warn.
func Load(root string) (Settings, error) {
	if err := LoadDotEnv(root); err != nil {
		return Settings{}, err
	}
	s, _, err := LoadFS(os.DirFS(root), ConfigDir)
	if errors.Is(err, ErrNotFound) {
		s = Defaults()
		s.Normalize()
		s.ApplyEnv(nil)
		return s, err
	}
	if err != nil {
		return Settings{}, err
	}
	s.ApplyEnv(nil)
	return s, nil
}
