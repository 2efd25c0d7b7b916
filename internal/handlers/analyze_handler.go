package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/models"
	"alfredoptarigan/profile-analyzer/internal/services"
)

const (
	msgInvalidPayload        = "Invalid request payload"
	msgProfileRequired       = "Profile text is required"
	msgJobDescriptionMissing = "Job description is required"
	msgAnalysisFailed        = "Failed to analyze profile. Please check your OpenAI API key."
)

type AnalyzeHandler struct {
	validator services.RequestValidator
	gateway   services.AnalysisGateway
	logger    *zap.Logger
}

func NewAnalyzeHandler(
	validator services.RequestValidator,
	gateway services.AnalysisGateway,
	logger *zap.Logger,
) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{
		validator: validator,
		gateway:   gateway,
		logger:    logger,
	}
}

// HandleAnalyze handles POST /api/analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalysisRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgInvalidPayload})
	}

	if err := h.validator.Validate(req); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingProfile):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgProfileRequired})
		case errors.Is(err, services.ErrMissingJobDescription):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgJobDescriptionMissing})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgInvalidPayload})
		}
	}

	result, err := h.gateway.Analyze(c.UserContext(), req)
	if err != nil {
		h.logger.Error("analyze request failed",
			zap.String("request_id", requestID(c)),
			zap.Int("profile_chars", len(req.ProfileText)),
			zap.Int("job_chars", len(req.JobDescription)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: msgAnalysisFailed})
	}

	return c.JSON(models.AnalyzeResponse{Result: result})
}
