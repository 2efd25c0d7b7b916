package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"alfredoptarigan/profile-analyzer/internal/services"
)

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{fmt.Errorf("extract: %w", services.ErrUnsupportedMediaType), fiber.StatusBadRequest, "Only PDF files are accepted"},
		{fmt.Errorf("extract: %w", services.ErrPayloadTooLarge), fiber.StatusBadRequest, "File size must be under 5MB"},
		{fmt.Errorf("extract: %w", services.ErrNoExtractableText), fiber.StatusUnprocessableEntity, "Could not extract text from PDF"},
		{fmt.Errorf("extract: %w", services.ErrExtractionFailed), fiber.StatusInternalServerError, "Failed to parse PDF file"},
		{errors.New("unexpected"), fiber.StatusInternalServerError, "Failed to parse PDF file"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMessage, func(t *testing.T) {
			status, message := parseErrorResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}
