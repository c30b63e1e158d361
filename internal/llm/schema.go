package llm

// SchemaType is the JSON type of a Schema node.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
	TypeObject  SchemaType = "object"
)

// Schema is a provider-neutral description of the structured output we
// expect. Each provider converts it to its own representation.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Required    []string
}

// JSONSchema renders the schema as a JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.JSONSchema()
		}
		out["properties"] = props
		out["additionalProperties"] = false
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}
