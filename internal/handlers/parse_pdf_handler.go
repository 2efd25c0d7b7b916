package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/models"
	"alfredoptarigan/profile-analyzer/internal/services"
)

const (
	msgNoFile            = "No file provided"
	msgOnlyPDF           = "Only PDF files are accepted"
	msgFileTooLarge      = "File size must be under 5MB"
	msgNoExtractableText = "Could not extract text from PDF"
	msgParseFailed       = "Failed to parse PDF file"
)

type ParsePDFHandler struct {
	pdfParser services.PDFParserService
	logger    *zap.Logger
}

func NewParsePDFHandler(pdfParser services.PDFParserService, logger *zap.Logger) *ParsePDFHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParsePDFHandler{
		pdfParser: pdfParser,
		logger:    logger,
	}
}

// HandleParsePDF handles POST /api/parse-pdf
func (h *ParsePDFHandler) HandleParsePDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgNoFile})
	}

	doc := models.ProfileDocument{
		Filename:  fileHeader.Filename,
		MediaType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:      fileHeader.Size,
	}

	// Oversized uploads are rejected by the extractor on the declared size
	// alone, so their bytes are never read.
	if doc.Size <= services.MaxPDFSize {
		doc.Data, err = readFormFile(fileHeader)
		if err != nil {
			h.logger.Error("failed to read uploaded file",
				zap.String("request_id", requestID(c)),
				zap.String("filename", doc.Filename),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: msgParseFailed})
		}
	}

	text, err := h.pdfParser.ExtractText(c.UserContext(), doc)
	if err != nil {
		status, message := parseErrorResponse(err)
		if status == fiber.StatusInternalServerError {
			h.logger.Error("pdf parse failed",
				zap.String("request_id", requestID(c)),
				zap.String("filename", doc.Filename),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(models.ErrorResponse{Error: message})
	}

	return c.JSON(models.ParsePDFResponse{Text: text})
}

func parseErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUnsupportedMediaType):
		return fiber.StatusBadRequest, msgOnlyPDF
	case errors.Is(err, services.ErrPayloadTooLarge):
		return fiber.StatusBadRequest, msgFileTooLarge
	case errors.Is(err, services.ErrNoExtractableText):
		return fiber.StatusUnprocessableEntity, msgNoExtractableText
	default:
		return fiber.StatusInternalServerError, msgParseFailed
	}
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}
