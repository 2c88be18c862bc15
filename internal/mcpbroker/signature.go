// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpbroker

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

// jsonSchemaMetaSchema is a JSON Schema document whose only keyword is a
// draft-07 $schema reference. ValidateSchema does not read it: it selects
// draft-07 through gojsonschema.Draft7 and checks each schema against
// gojsonschema's own draft-07 meta-schema.
const jsonSchemaMetaSchema = `{"$schema":"http://json-schema.org/draft-07/schema#"}`

// pythonTypeHints maps JSON Schema primitive types to the Python type hint
// the stub compiler emits, matching original_source's mcp.py mapping.
var pythonTypeHints = map[string]string{
	"string":  "str",
	"integer": "int",
	"boolean": "bool",
	"number":  "float",
	"object":  "dict",
	"array":   "list",
}

// Parameter is one synthesized Python parameter for a generated tool
// method.
type Parameter struct {
	Name        string
	TypeHint    string
	Required    bool
	Default     string
	Description string
}

// Signature is the synthesized parameter list for one discovered tool,
// in stable declaration order.
type Signature struct {
	ToolName   string
	Parameters []Parameter
}

// ValidateSchema checks that schema is a well-formed JSON Schema document
// by compiling it with gojsonschema's draft-07 meta-schema check enabled.
// Discover calls it for every advertised inputSchema, so a malformed schema
// fails discovery rather than silently producing a degenerate stub.
func ValidateSchema(schema map[string]any) error {
	data, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("mcpbroker: marshal schema: %w", err)
	}

	loader := gojsonschema.NewSchemaLoader()
	loader.Draft = gojsonschema.Draft7
	loader.Validate = true
	if _, err := loader.Compile(gojsonschema.NewBytesLoader(data)); err != nil {
		return fmt.Errorf("mcpbroker: invalid input schema: %w", err)
	}
	return nil
}

// Synthesize builds the parameter signature for a tool's inputSchema.
// Properties listed in the schema's "required" array come first, then the
// optional ones, each group sorted by name, so every parameter with a
// default follows every parameter without one and the order is the same
// across runs. The schema's own property order is not kept.
func Synthesize(toolName string, schema map[string]any) Signature {
	properties, _ := schema["properties"].(map[string]any)
	required := map[string]bool{}
	if req, ok := schema["required"].([]any); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	params := make([]Parameter, 0, len(names))
	for _, name := range names {
		info, _ := properties[name].(map[string]any)
		propType, _ := info["type"].(string)
		description, _ := info["description"].(string)
		typeHint := pythonTypeHints[propType]

		p := Parameter{
			Name:        name,
			TypeHint:    typeHint,
			Required:    required[name],
			Description: description,
		}
		if !p.Required {
			p.Default = pythonDefaultLiteral(info["default"])
		}
		params = append(params, p)
	}

	return Signature{ToolName: toolName, Parameters: params}
}

func pythonDefaultLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "None"
		}
		return string(data)
	}
}
