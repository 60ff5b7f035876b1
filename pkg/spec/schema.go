package spec

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/drawforge/pkg/errors"
)

// diagramSchemaJSON is the structural JSON Schema for diagram descriptions.
// It checks field shapes only; closed enumerations and referential integrity
// are enforced by Validate so failures carry the engine's error codes and
// name the offending identifier.
const diagramSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://drawforge.dev/schemas/diagram.json",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "title": { "type": "string" },
    "subtitle": { "type": "string" },
    "theme": { "type": "string" },
    "layout": { "type": "string" },
    "nodes": {
      "type": "array",
      "items": { "$ref": "#/$defs/node" }
    },
    "edges": {
      "type": "array",
      "items": { "$ref": "#/$defs/edge" }
    },
    "groups": {
      "type": "array",
      "items": { "$ref": "#/$defs/group" }
    },
    "lanes": {
      "type": "array",
      "items": { "$ref": "#/$defs/lane" }
    },
    "pipeline": {
      "type": "array",
      "items": {
        "anyOf": [
          { "type": "string" },
          { "type": "array", "items": { "type": "string" }, "minItems": 1 }
        ]
      }
    },
    "grid_columns": { "type": "integer", "minimum": 1 },
    "flow_columns": { "type": "integer", "minimum": 1 }
  },
  "additionalProperties": false,
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id", "label"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "type": { "type": "string" },
        "variant": { "type": "string" },
        "detail": { "type": "string" },
        "icon": { "type": "string" },
        "row": { "anyOf": [{ "type": "string" }, { "type": "number" }] },
        "lane": { "type": "string" }
      },
      "additionalProperties": false
    },
    "edge": {
      "type": "object",
      "required": ["from", "to"],
      "properties": {
        "from": { "type": "string", "minLength": 1 },
        "to": { "type": "string", "minLength": 1 },
        "style": { "type": "string" },
        "color": { "type": "string" },
        "label": { "type": "string" }
      },
      "additionalProperties": false
    },
    "group": {
      "type": "object",
      "required": ["id", "label", "members"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "members": { "type": "array", "items": { "type": "string" }, "minItems": 1 },
        "color": { "type": "string" }
      },
      "additionalProperties": false
    },
    "lane": {
      "type": "object",
      "required": ["id", "label"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "label": { "type": "string" },
        "color": { "type": "string" }
      },
      "additionalProperties": false
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// compiledSchema compiles the embedded schema once. Compilation failure is a
// programming error surfaced on first use.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(diagramSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal diagram schema: %w", err)
			return
		}
		if err := c.AddResource("https://drawforge.dev/schemas/diagram.json", doc); err != nil {
			schemaErr = fmt.Errorf("add diagram schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile("https://drawforge.dev/schemas/diagram.json")
	})
	return schema, schemaErr
}

// checkStructure validates raw JSON against the structural schema.
func checkStructure(raw []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile diagram schema")
	}

	if !json.Valid(raw) {
		return errors.New(errors.ErrCodeSchema, "input is not valid JSON")
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return errors.Wrap(errors.ErrCodeSchema, err, "parse input")
	}

	if err := sch.Validate(doc); err != nil {
		return toSchemaError(err)
	}
	return nil
}

// toSchemaError converts a jsonschema.ValidationError into a structured
// schema error listing the leaf violations with their instance locations.
func toSchemaError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return errors.Wrap(errors.ErrCodeSchema, err, "invalid diagram description")
	}
	violations := collectViolations(verr)
	return errors.New(errors.ErrCodeSchema, "invalid diagram description: %s", strings.Join(violations, "; "))
}

// collectViolations walks a ValidationError tree and collects leaf messages
// with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
