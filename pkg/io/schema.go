package io

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/process"
)

const schemaURL = "https://stepflow.dev/schemas/process.json"

// recordSchemaJSON describes a process record. It is deliberately loose
// about values (statuses, kinds and conditions are free strings) because
// those are normalized by the adapter, and strict about shape.
const recordSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://stepflow.dev/schemas/process.json",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "name": { "type": "string" },
    "nodes": {
      "type": "array",
      "items": { "$ref": "#/$defs/node" }
    },
    "edges": {
      "type": ["array", "null"],
      "items": { "$ref": "#/$defs/edge" }
    }
  },
  "$defs": {
    "node": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "string" },
        "type": { "type": "string" },
        "kind": { "type": "string" },
        "status": { "type": "string" },
        "title": { "type": "string" },
        "description": { "type": "string" },
        "actors": {
          "type": "array",
          "items": { "type": "string" }
        },
        "gap": { "type": ["string", "null"] },
        "operationalDetails": { "$ref": "#/$defs/details" }
      }
    },
    "edge": {
      "type": "object",
      "required": ["source", "target"],
      "properties": {
        "id": { "type": "string" },
        "source": { "type": "string" },
        "target": { "type": "string" },
        "condition": { "type": "string" },
        "label": { "type": "string" }
      }
    },
    "details": {
      "type": ["object", "null"],
      "properties": {
        "requiredData": { "type": "array", "items": { "type": "string" } },
        "actions": { "type": "array", "items": { "type": "string" } },
        "contacts": {
          "type": "object",
          "additionalProperties": { "type": "string" }
        },
        "timeline": { "type": "string" }
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal record schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add record schema resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// Validate checks raw JSON against the process record schema. Each
// violation becomes one SCHEMA_VIOLATION warning, ordered as the validator
// reports them. Validate fails only if data is not JSON.
func Validate(data []byte) (process.Diagnostics, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile record schema")
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json record")
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, errors.Wrap(errors.ErrCodeSchemaViolation, err, "validate record")
	}

	var diags process.Diagnostics
	for _, v := range collectViolations(verr) {
		diags.Add(process.Diagnostic{
			Code:     process.CodeSchemaViolation,
			Severity: process.SeverityWarning,
			Message:  v,
		})
	}
	return diags, nil
}

// collectViolations walks a ValidationError tree and collects leaf error
// messages prefixed with their instance locations.
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
