package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var errMissingAPIKey = errors.New("missing API key")

type geminiService struct {
	client    *genai.Client
	initErr   error
	modelName string
	logger    *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, logger *zap.Logger) Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &geminiService{
		modelName: modelName,
		logger:    logger,
	}

	if apiKey == "" {
		svc.initErr = fmt.Errorf("gemini: %w", errMissingAPIKey)
		logger.Warn("gemini API key is not set; analysis calls will fail")
		return svc
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		svc.initErr = fmt.Errorf("failed to create gemini client: %w", err)
		return svc
	}
	svc.client = client
	return svc
}

// Complete implements Completer.
func (g *geminiService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if g.initErr != nil {
		return "", g.initErr
	}

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(req.User), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	g.logger.Debug("gemini response received", zap.Int("candidates", len(resp.Candidates)))
	return resp.Text(), nil
}
