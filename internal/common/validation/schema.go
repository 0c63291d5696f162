package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// DialogEventSchema describes the code-hook event sent by the front-end.
const DialogEventSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["currentIntent", "invocationSource"],
  "properties": {
    "currentIntent": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "slots": {
          "type": ["object", "null"],
          "additionalProperties": {"type": ["string", "null"]}
        }
      }
    },
    "invocationSource": {"type": "string", "enum": ["DialogCodeHook", "FulfillmentCodeHook"]},
    "sessionAttributes": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    },
    "userId": {"type": "string"},
    "inputTranscript": {"type": "string"}
  }
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// SchemaValidator holds a compiled JSON schema.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

func NewSchemaValidator(schemaJSON string) (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// NewDialogEventValidator compiles DialogEventSchema.
func NewDialogEventValidator() (*SchemaValidator, error) {
	return NewSchemaValidator(DialogEventSchema)
}

// Validate checks a raw JSON document. The error is non-nil only when the
// document is not JSON at all.
func (v *SchemaValidator) Validate(document []byte) (*ValidationResult, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	return &ValidationResult{Valid: result.Valid(), Errors: errs}, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
