package io

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const diagramSchemaURL = "https://seqdraw.dev/schemas/diagram.json"

const diagramSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://seqdraw.dev/schemas/diagram.json",
  "type": "object",
  "required": ["participants", "messages"],
  "additionalProperties": false,
  "properties": {
    "title": {"type": "string"},
    "participants": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "additionalProperties": false,
        "properties": {
          "id": {"$ref": "#/$defs/id"},
          "label": {"type": "string"},
          "color": {"type": "string", "pattern": "^#[0-9a-fA-F]{6}$"},
          "color_index": {"type": "integer", "minimum": 0}
        }
      }
    },
    "messages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to", "style"],
        "additionalProperties": false,
        "properties": {
          "index": {"type": "integer", "minimum": 0},
          "from": {"$ref": "#/$defs/id"},
          "to": {"$ref": "#/$defs/id"},
          "style": {"enum": ["solid", "dashed"]},
          "arrow": {"enum": ["->>", "-->>", "->", "-->"]},
          "text": {"type": "string"},
          "step": {"type": "integer", "minimum": 0}
        }
      }
    }
  },
  "$defs": {
    "id": {"type": "string", "minLength": 1, "pattern": "^[^\\s:]+$"}
  }
}`

// DiagramSchema returns the JSON Schema that [ReadJSON] validates against.
func DiagramSchema() string { return diagramSchemaJSON }

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(diagramSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal diagram schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(diagramSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add diagram schema resource: %w", err)
	}
	return c.Compile(diagramSchemaURL)
})

// violations flattens a validation error tree into "location: message" lines.
func violations(err error) []string {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}
	return collectViolations(verr)
}

func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var out []string
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}

// validateDocument checks raw JSON bytes against the diagram schema.
func validateDocument(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	return schema.Validate(doc)
}
