package services

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"alfredoptarigan/profile-analyzer/internal/models"
)

//go:embed analysis_result.schema.json
var analysisResultSchema string

// ValidationError lists every schema violation found in a completion payload.
type ValidationError struct {
	Errors []FieldError
}

type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ResponseDecoder validates completion payloads against the AnalysisResult
// schema before decoding them.
type ResponseDecoder struct {
	schema *gojsonschema.Schema
}

func NewResponseDecoder() (*ResponseDecoder, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisResultSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis result schema: %w", err)
	}
	return &ResponseDecoder{schema: schema}, nil
}

// MustNewResponseDecoder panics if the embedded schema cannot be compiled.
func MustNewResponseDecoder() *ResponseDecoder {
	d, err := NewResponseDecoder()
	if err != nil {
		panic(err)
	}
	return d
}

// Decode returns ErrMalformedResponse for invalid JSON or any schema violation.
func (d *ResponseDecoder) Decode(content string) (*models.AnalysisResult, error) {
	payload := extractJSON(content)

	result, err := d.schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, wrapError(ErrMalformedResponse, "decode", err)
	}
	if !result.Valid() {
		validationErr := &ValidationError{
			Errors: make([]FieldError, 0, len(result.Errors())),
		}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			validationErr.Errors = append(validationErr.Errors, FieldError{
				Field:   field,
				Message: desc.Description(),
			})
		}
		return nil, wrapError(ErrMalformedResponse, "decode", validationErr)
	}

	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, wrapError(ErrMalformedResponse, "decode", err)
	}
	analysis.Normalize()

	return &analysis, nil
}

// extractJSON returns the outermost JSON object in text, ignoring markdown
// fences and any prose around it. Text without an object is returned trimmed.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}
