package openapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-typescaf/internal/naming"
	"github.com/goliatone/go-typescaf/pkg/schema"
)

// Version is the OpenAPI version emitted.
const Version = "3.0.3"

// PrimaryKeyExtension marks the schema property used as the item key.
const PrimaryKeyExtension = "x-primary-key"

// Class is one inferred class to describe.
type Class struct {
	Name       string
	Properties []schema.Property
}

// Options configure a Build.
type Options struct {
	Title      string
	Version    string
	BaseURL    string
	SkipVerify bool
}

// Build assembles and validates a document for classes.
func Build(ctx context.Context, classes []Class, opts Options) (*openapi3.T, error) {
	if opts.Title == "" {
		opts.Title = "typescaf mock API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	server, basePath, err := splitBase(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	doc := &openapi3.T{
		OpenAPI:    Version,
		Info:       &openapi3.Info{Title: opts.Title, Version: opts.Version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
	if server != "" {
		doc.Servers = openapi3.Servers{{URL: server}}
	}

	sorted := append([]Class(nil), classes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, class := range sorted {
		if class.Name == "" {
			return nil, fmt.Errorf("openapi: class name is required")
		}
		if _, exists := doc.Components.Schemas[class.Name]; exists {
			return nil, fmt.Errorf("openapi: duplicate class %q", class.Name)
		}
		value := SchemaFor(class.Properties)
		doc.Components.Schemas[class.Name] = openapi3.NewSchemaRef("", value)
		ref := openapi3.NewSchemaRef("#/components/schemas/"+class.Name, value)
		addPaths(doc, basePath, class, ref)
	}

	if !opts.SkipVerify {
		if err := doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}

// SchemaFor returns the object schema of a property list.
func SchemaFor(props []schema.Property) *openapi3.Schema {
	obj := openapi3.NewObjectSchema()
	obj.Properties = openapi3.Schemas{}
	for _, prop := range props {
		obj.Properties[prop.Name] = openapi3.NewSchemaRef("", propertySchema(prop))
		if prop.Required {
			obj.Required = append(obj.Required, prop.Name)
		}
	}
	return obj
}

func propertySchema(prop schema.Property) *openapi3.Schema {
	var s *openapi3.Schema
	switch prop.Validation {
	case schema.ValidationString:
		s = openapi3.NewStringSchema()
	case schema.ValidationNumber:
		s = openapi3.NewFloat64Schema()
	case schema.ValidationBoolean:
		s = openapi3.NewBoolSchema()
	case schema.ValidationDate:
		s = openapi3.NewDateTimeSchema()
	case schema.ValidationArray:
		s = openapi3.NewArraySchema()
		if prop.Properties != nil {
			s.Items = openapi3.NewSchemaRef("", SchemaFor(prop.Properties))
		} else {
			s.Items = openapi3.NewSchemaRef("", openapi3.NewSchema())
		}
	case schema.ValidationObject:
		if prop.Properties != nil {
			s = SchemaFor(prop.Properties)
		} else {
			s = openapi3.NewObjectSchema()
		}
		s.Nullable = true
	default:
		s = openapi3.NewSchema()
	}
	s.Title = prop.Label
	if prop.PrimaryKey {
		s.ReadOnly = true
		s.Extensions = map[string]any{PrimaryKeyExtension: true}
	}
	return s
}

func addPaths(doc *openapi3.T, basePath string, class Class, ref *openapi3.SchemaRef) {
	resource := naming.Resource(class.Name)
	listPath := basePath + "/" + resource

	list := openapi3.NewOperation()
	list.OperationID = "list" + naming.Plural(naming.Component(class.Name))
	list.Summary = "List " + naming.Plural(naming.Title(class.Name))
	list.Tags = []string{class.Name}
	list.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("OK").
				WithJSONSchema(openapi3.NewArraySchema().WithItems(ref.Value)),
		}),
	)
	doc.Paths.Set(listPath, &openapi3.PathItem{Get: list})

	item := openapi3.NewOperation()
	item.OperationID = "get" + naming.Component(class.Name)
	item.Summary = "Get one " + naming.Title(class.Name)
	item.Tags = []string{class.Name}
	item.Parameters = openapi3.Parameters{
		{Value: openapi3.NewPathParameter("key").WithSchema(openapi3.NewStringSchema())},
	}
	item.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("OK").WithJSONSchemaRef(ref),
		}),
		openapi3.WithStatus(404, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Not found"),
		}),
	)
	doc.Paths.Set(listPath+"/{key}", &openapi3.PathItem{Get: item})
}

// splitBase separates the server origin from the path prefix of a REST
// base URL. A bare path is accepted as the prefix.
func splitBase(base string) (server, path string, err error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", "", nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", "", fmt.Errorf("openapi: base url %q: %w", base, err)
	}
	path = strings.TrimRight(u.Path, "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if u.Scheme != "" && u.Host != "" {
		server = u.Scheme + "://" + u.Host
	}
	return server, path, nil
}

// BasePath returns the path prefix of a REST base URL ("/api" for
// "http://localhost:4010/api").
func BasePath(base string) (string, error) {
	_, p, err := splitBase(base)
	return p, err
}
