package services

import (
	"errors"
	"fmt"
)

// Document extraction failures.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrNoExtractableText    = errors.New("no extractable text")
	ErrExtractionFailed     = errors.New("extraction failed")
)

// Request validation failures.
var (
	ErrMissingProfile        = errors.New("profile text is required")
	ErrMissingJobDescription = errors.New("job description is required")
)

// Analysis gateway failures.
var (
	ErrEmptyResponse     = errors.New("empty response from completion service")
	ErrMalformedResponse = errors.New("malformed response from completion service")
	ErrAnalysisFailed    = errors.New("analysis failed")
	ErrAnalysisTimedOut  = errors.New("analysis timed out")
)

// wrapError keeps both the failure kind and its cause reachable through errors.Is.
func wrapError(kind error, operation string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", operation, kind)
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, cause)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
