// internal/api/schema.go
package api

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// sendSchema validates the shape of the send request envelope before binding.
// Selector exclusivity, channel membership, and attribute typing are checked
// later with access to database state; the schema only rejects structurally
// broken payloads.
const sendSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"},
		"notificationId": {"type": "integer"},
		"externalId": {"type": "string"},
		"channel": {"type": "string"},
		"recipients": {
			"oneOf": [
				{"type": "string", "minLength": 1},
				{"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1}
			]
		},
		"attributes": {"type": "object"}
	},
	"required": ["channel", "recipients"]
}`

var sendSchemaLoader = gojsonschema.NewStringLoader(sendSchema)

// validateEnvelope runs the raw body through the schema and folds the result
// into field -> message, keeping the first message per field.
func validateEnvelope(body []byte) map[string]string {
	result, err := gojsonschema.Validate(sendSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil || result.Valid() {
		return nil
	}

	fields := map[string]string{}
	for _, resErr := range result.Errors() {
		field := resErr.Field()
		if resErr.Type() == "required" {
			if prop, ok := resErr.Details()["property"].(string); ok {
				field = prop
			}
		}
		// oneOf failures report subpaths; collapse them onto the field itself
		if strings.HasPrefix(field, "recipients") {
			field = "recipients"
		}
		if field == "(root)" {
			continue
		}
		if _, ok := fields[field]; !ok {
			fields[field] = resErr.Description()
		}
	}
	return fields
}
