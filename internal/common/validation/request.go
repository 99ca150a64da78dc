// internal/common/validation/request.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// travelRequestSchema is the boundary contract for incoming plan
// requests. Days are bounded 1..30 to keep downstream query fan-out
// and prompt size in check.
var travelRequestSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"destination": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 120,
		},
		"days": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 30,
		},
		"budgetTier": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"low", "medium", "high"},
		},
		"language": map[string]interface{}{
			"type":      "string",
			"minLength": 2,
			"maxLength": 40,
		},
	},
	"required":             []interface{}{"destination", "days", "budgetTier", "language"},
	"additionalProperties": false,
}

// ValidationError describes a single schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateTravelRequest checks a decoded request body against the
// boundary schema and returns every violation found.
func ValidateTravelRequest(payload map[string]interface{}) ([]ValidationError, error) {
	schemaLoader := gojsonschema.NewGoLoader(travelRequestSchema)
	documentLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return violations, nil
}
