package describe

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"github.com/goliatone/go-errors"
	js "github.com/reoring/flexjson/jsonschema"
)

// TextCodeOpenAPI marks an exported document that failed OpenAPI validation.
const TextCodeOpenAPI = "OPENAPI_INVALID"

// OpenAPI exports every record as a component schema of an OpenAPI 3.0
// document. The document is validated before it is returned.
func (c *Catalog) OpenAPI(ctx context.Context, title, version string) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: title, Version: version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
	}
	for _, name := range c.Names() {
		s := toOpenAPI(c.records[name].JSONSchema())
		s.Title = name
		s.Description = c.docs[name]
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", s)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "exported document is not valid OpenAPI").
			WithTextCode(TextCodeOpenAPI)
	}
	return doc, nil
}

// toOpenAPI maps the exported JSON Schema subset onto OpenAPI 3.0. A oneOf
// with a null branch becomes a nullable schema.
func toOpenAPI(s *js.Schema) *openapi3.Schema {
	if s == nil {
		return &openapi3.Schema{}
	}
	if inner, ok := nullableBranch(s); ok {
		out := toOpenAPI(inner)
		out.Nullable = true
		out.Default = plainJSON(s.Default)
		return out
	}
	out := &openapi3.Schema{
		Format:      s.Format,
		Description: s.Description,
		Default:     plainJSON(s.Default),
	}
	switch s.Type {
	case "":
	case "null":
		out.Nullable = true
	default:
		out.Type = &openapi3.Types{s.Type}
	}
	for _, e := range s.Enum {
		out.Enum = append(out.Enum, plainJSON(e))
	}
	if len(s.Properties) > 0 {
		out.Properties = make(openapi3.Schemas, len(s.Properties))
		for k, p := range s.Properties {
			out.Properties[k] = openapi3.NewSchemaRef("", toOpenAPI(p))
		}
	}
	if s.AdditionalProperties != nil {
		out.AdditionalProperties = openapi3.AdditionalProperties{Schema: openapi3.NewSchemaRef("", toOpenAPI(s.AdditionalProperties))}
	}
	if s.Items != nil {
		out.Items = openapi3.NewSchemaRef("", toOpenAPI(s.Items))
	}
	for _, o := range s.OneOf {
		out.OneOf = append(out.OneOf, openapi3.NewSchemaRef("", toOpenAPI(o)))
	}
	return out
}

func nullableBranch(s *js.Schema) (*js.Schema, bool) {
	if len(s.OneOf) != 2 {
		return nil, false
	}
	switch {
	case s.OneOf[1] != nil && s.OneOf[1].Type == "null":
		return s.OneOf[0], true
	case s.OneOf[0] != nil && s.OneOf[0].Type == "null":
		return s.OneOf[1], true
	}
	return nil, false
}

// plainJSON reduces encoded values (ordered objects, sized integers) to the
// generic JSON tree the OpenAPI validator understands.
func plainJSON(v any) any {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
