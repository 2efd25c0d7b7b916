package services

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

type openAIService struct {
	llm     *openai.LLM
	initErr error
	logger  *zap.Logger
}

func NewOpenAIService(apiKey, model, baseURL string, logger *zap.Logger) Completer {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &openAIService{logger: logger}

	if apiKey == "" {
		svc.initErr = fmt.Errorf("openai: %w", errMissingAPIKey)
		logger.Warn("OpenAI API key is not set; analysis calls will fail")
		return svc
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		svc.initErr = fmt.Errorf("failed to create openai client: %w", err)
		return svc
	}
	svc.llm = llm
	return svc
}

// Complete implements Completer.
func (o *openAIService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if o.initErr != nil {
		return "", o.initErr
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.User),
	}
	callOpts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	resp, err := o.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("openai generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", nil
	}

	o.logger.Debug("openai response received", zap.String("stop_reason", resp.Choices[0].StopReason))
	return resp.Choices[0].Content, nil
}
