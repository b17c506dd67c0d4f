package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses a JSON Schema document.
func Compile(name, schemaJSON string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(name, schemaJSON string) *Schema {
	s, err := Compile(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Name() string {
	return s.name
}

// ValidateBytes validates a raw JSON document. A body that is not JSON is
// reported as a single INVALID_JSON error.
func (s *Schema) ValidateBytes(body []byte) *ValidationResult {
	return s.validate(gojsonschema.NewBytesLoader(body))
}

// ValidateInput validates decoded job variables.
func (s *Schema) ValidateInput(input map[string]interface{}) *ValidationResult {
	return s.validate(gojsonschema.NewGoLoader(input))
}

func (s *Schema) validate(doc gojsonschema.JSONLoader) *ValidationResult {
	result, err := s.schema.Validate(doc)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "INVALID_JSON",
			}},
		}
	}

	errors := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errors = append(errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    errorCode(desc.Type()),
		})
	}

	return &ValidationResult{
		Valid:  result.Valid(),
		Errors: errors,
	}
}

func errorCode(kind string) string {
	switch kind {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "invalid_type":
		return "INVALID_TYPE"
	case "string_gte":
		return "MIN_LENGTH_VIOLATION"
	case "string_lte":
		return "MAX_LENGTH_VIOLATION"
	case "number_gte", "number_lte":
		return "RANGE_VIOLATION"
	case "additional_property_not_allowed":
		return "EXTRA_FIELD"
	default:
		return strings.ToUpper(kind)
	}
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// Summary joins all messages into one line.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func (vr *ValidationResult) GetErrorsForField(field string) []ValidationError {
	var fieldErrors []ValidationError
	for _, err := range vr.Errors {
		if err.Field == field {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}
