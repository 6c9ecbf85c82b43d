package models

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// routineSchema is the JSON Schema for a persisted routine document. It pins
// down the required shape (metadata, start_node, node ids and positions)
// while leaving unknown extra fields legal, so newer writers stay readable.
const routineSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["metadata", "start_node", "nodes"],
  "properties": {
    "metadata": {
      "type": "object",
      "properties": {
        "name":        {"type": "string"},
        "description": {"type": "string"},
        "author":      {"type": "string"},
        "version":     {"type": "string"},
        "map_name":    {"type": "string"},
        "created":     {"type": "string"},
        "modified":    {"type": "string"}
      }
    },
    "start_node": {"type": "string"},
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type", "editor_position"],
        "properties": {
          "id":   {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "editor_position": {
            "type": "object",
            "required": ["x", "y"],
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            }
          },
          "next":         {"type": ["string", "null"]},
          "game_position": {
            "type": "object",
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            }
          },
          "commands": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type"],
              "properties": {
                "type":   {"type": "string"},
                "params": {"type": "object"}
              }
            }
          },
          "frequency":    {"type": "integer", "minimum": 1},
          "skip":         {"type": "boolean"},
          "adjust":       {"type": "boolean"},
          "label":        {"type": "string"},
          "target_label": {"type": "string"},
          "setting_key":  {"type": "string"}
        }
      }
    }
  }
}`

// CheckDocument validates raw routine JSON against the document schema.
// Violations are reported together, each naming the offending field, wrapped
// in ErrInvalidDocument.
func CheckDocument(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(routineSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, issue := range result.Errors() {
		issues = append(issues, fmt.Sprintf("%s: %s", issue.Field(), issue.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(issues, "; "))
}
