// Package settings loads the project configuration that drives component
// generation. A Settings value is always passed explicitly; nothing in the
// module reads configuration from package state.
package settings

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no settings document exists.
var ErrNotFound = errors.New("settings: no settings file found")

// Default locations relative to the project root.
const (
	Dir           = ".type-scaf"
	ConfigDir     = Dir + "/config"
	TemplatesDir  = Dir + "/templates"
	UIDir         = ConfigDir + "/ui"
	DefaultSource = ConfigDir + "/package-types.ts"
)

// Settings configures a generation run.
type Settings struct {
	TemplateType       string              `json:"templateType" yaml:"templateType"`
	TemplateVariant    string              `json:"templateVariant,omitempty" yaml:"templateVariant,omitempty"`
	BaseRestAPIURL     string              `json:"baseRestApiUrl" yaml:"baseRestApiUrl"`
	Sources            []string            `json:"sources,omitempty" yaml:"sources,omitempty"`
	TransformTemplates []TransformTemplate `json:"transformTemplates" yaml:"transformTemplates"`
	GenerateDebugTypes OutputToggle        `json:"generateDebugTypes" yaml:"generateDebugTypes"`
	GenerateOpenAPI    OutputToggle        `json:"generateOpenApi" yaml:"generateOpenApi"`
	MockData           MockData            `json:"mockData" yaml:"mockData"`
	MaxDepth           int                 `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`
	Dependencies       map[string]string   `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	DevDependencies    map[string]string   `json:"devDependencies,omitempty" yaml:"devDependencies,omitempty"`
}

// TransformTemplate binds one template file to an output location. Both
// OutputDirectory and GeneratedFileName may contain {{className}}.
type TransformTemplate struct {
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	TemplateFileName  string `json:"templateFileName" yaml:"templateFileName"`
	OutputDirectory   string `json:"outputDirectory" yaml:"outputDirectory"`
	GeneratedFileName string `json:"generatedFileName" yaml:"generatedFileName"`
	Extension         string `json:"extension,omitempty" yaml:"extension,omitempty"`
}

// OutputToggle enables an optional output and names its directory.
type OutputToggle struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	OutputPath string `json:"outputPath" yaml:"outputPath"`
}

// MockData sizes the synthetic data handed to templates.
type MockData struct {
	Records int `json:"records,omitempty" yaml:"records,omitempty"`
	Options int `json:"options,omitempty" yaml:"options,omitempty"`
}

// Defaults returns the settings `init` writes for the react template set.
func Defaults() Settings {
	return Settings{
		TemplateType:   "react",
		BaseRestAPIURL: "http://localhost:4010/api",
		TransformTemplates: []TransformTemplate{
			{Name: "form", TemplateFileName: "form.tpl", OutputDirectory: "src/components/{{className}}", GeneratedFileName: "{{className}}Form"},
			{Name: "list", TemplateFileName: "list.tpl", OutputDirectory: "src/components/{{className}}", GeneratedFileName: "{{className}}List"},
			{Name: "story", TemplateFileName: "story.tpl", OutputDirectory: "src/components/{{className}}", GeneratedFileName: "{{className}}.stories"},
			{Name: "hooks", TemplateFileName: "hooks.tpl", OutputDirectory: "src/components/{{className}}", GeneratedFileName: "use{{className}}", Extension: ".js"},
		},
		GenerateDebugTypes: OutputToggle{OutputPath: "debug"},
		GenerateOpenAPI:    OutputToggle{OutputPath: "openapi"},
		MockData:           MockData{Records: 5, Options: 4},
		MaxDepth:           32,
		Dependencies: map[string]string{
			"react-hook-form":     "^7.51.0",
			"@hookform/resolvers": "^3.3.4",
			"yup":                 "^1.4.0",
		},
		DevDependencies: map[string]string{
			"@storybook/react": "^8.0.0",
		},
	}
}

// Normalize fills zero values from Defaults and trims string fields.
func (s *Settings) Normalize() {
	def := Defaults()
	s.TemplateType = strings.TrimSpace(s.TemplateType)
	if s.TemplateType == "" {
		s.TemplateType = def.TemplateType
	}
	s.TemplateVariant = strings.TrimSpace(s.TemplateVariant)
	s.BaseRestAPIURL = strings.TrimRight(strings.TrimSpace(s.BaseRestAPIURL), "/")
	if len(s.TransformTemplates) == 0 {
		s.TransformTemplates = def.TransformTemplates
	}
	for i := range s.TransformTemplates {
		tt := &s.TransformTemplates[i]
		if tt.Name == "" {
			tt.Name = strings.TrimSuffix(tt.TemplateFileName, ".tpl")
		}
		if tt.Extension == "" {
			tt.Extension = ".jsx"
		} else if !strings.HasPrefix(tt.Extension, ".") {
			tt.Extension = "." + tt.Extension
		}
	}
	if s.GenerateDebugTypes.OutputPath == "" {
		s.GenerateDebugTypes.OutputPath = def.GenerateDebugTypes.OutputPath
	}
	if s.GenerateOpenAPI.OutputPath == "" {
		s.GenerateOpenAPI.OutputPath = def.GenerateOpenAPI.OutputPath
	}
	if s.MockData.Records <= 0 {
		s.MockData.Records = def.MockData.Records
	}
	if s.MockData.Options <= 0 {
		s.MockData.Options = def.MockData.Options
	}
	if s.MaxDepth <= 0 {
		s.MaxDepth = def.MaxDepth
	}
	if len(s.Sources) == 0 {
		s.Sources = []string{DefaultSource}
	}
}
