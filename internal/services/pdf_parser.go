package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/metrics"
	"alfredoptarigan/profile-analyzer/internal/models"
)

const (
	PDFMediaType = "application/pdf"
	MaxPDFSize   = 5 * 1024 * 1024
)

type PDFParserService interface {
	ExtractText(ctx context.Context, doc models.ProfileDocument) (string, error)
	ExtractTextWithMetadata(ctx context.Context, doc models.ProfileDocument) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
}

type pdfParserService struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewPDFParserService(logger *zap.Logger, m *metrics.Metrics) PDFParserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &pdfParserService{
		logger:  logger,
		metrics: m,
	}
}

// ExtractText implements PDFParserService.
func (p *pdfParserService) ExtractText(ctx context.Context, doc models.ProfileDocument) (string, error) {
	content, err := p.ExtractTextWithMetadata(ctx, doc)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// ExtractTextWithMetadata implements PDFParserService.
func (p *pdfParserService) ExtractTextWithMetadata(ctx context.Context, doc models.ProfileDocument) (*PDFContent, error) {
	content, err := p.extract(ctx, doc)

	outcome := extractionOutcome(err)
	p.metrics.RecordExtraction(outcome)
	if err != nil {
		p.logger.Warn("pdf extraction failed",
			zap.String("filename", doc.Filename),
			zap.String("media_type", doc.MediaType),
			zap.Int64("size", declaredSize(doc)),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, err
	}

	p.logger.Info("pdf extracted",
		zap.String("filename", doc.Filename),
		zap.Int("pages", content.PageCount),
		zap.Int("chars", len(content.Text)),
	)
	return content, nil
}

func (p *pdfParserService) extract(ctx context.Context, doc models.ProfileDocument) (*PDFContent, error) {
	if doc.MediaType != PDFMediaType {
		return nil, wrapError(ErrUnsupportedMediaType, "extract", fmt.Errorf("media type %q", doc.MediaType))
	}
	if size := declaredSize(doc); size > MaxPDFSize {
		return nil, wrapError(ErrPayloadTooLarge, "extract", fmt.Errorf("%d bytes exceeds %d", size, MaxPDFSize))
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapError(ErrExtractionFailed, "extract", err)
	}

	text, pageCount, err := readPlainText(doc.Data)
	if err != nil {
		return nil, wrapError(ErrExtractionFailed, "extract", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, wrapError(ErrNoExtractableText, "extract", nil)
	}

	return &PDFContent{
		Text:      text,
		PageCount: pageCount,
	}, nil
}

// readPlainText converts parser panics into errors; the pdf package panics on
// some malformed object streams.
func readPlainText(data []byte) (text string, pageCount int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	pageCount = r.NumPage()

	for pageIndex := 1; pageIndex <= pageCount; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", pageCount, fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), pageCount, nil
}

func declaredSize(doc models.ProfileDocument) int64 {
	if n := int64(len(doc.Data)); n > doc.Size {
		return n
	}
	return doc.Size
}

func extractionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsKind(err, ErrUnsupportedMediaType):
		return "unsupported_media_type"
	case IsKind(err, ErrPayloadTooLarge):
		return "payload_too_large"
	case IsKind(err, ErrNoExtractableText):
		return "no_extractable_text"
	default:
		return "extraction_failed"
	}
}

// CleanText collapses blank lines and trims each line.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
