package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/metrics"
	"alfredoptarigan/profile-analyzer/internal/models"
	"alfredoptarigan/profile-analyzer/internal/resilience"
)

const (
	DefaultTemperature = 0.7

	completionOperation = "completion"
)

type AnalysisGateway interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

type analysisGateway struct {
	completer     Completer
	breaker       *resilience.Breaker
	decoder       *ResponseDecoder
	promptBuilder *PromptBuilder
	temperature   float64
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

type GatewayOption func(*analysisGateway)

func WithTemperature(temperature float64) GatewayOption {
	return func(g *analysisGateway) {
		g.temperature = temperature
	}
}

func WithLogger(logger *zap.Logger) GatewayOption {
	return func(g *analysisGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) GatewayOption {
	return func(g *analysisGateway) {
		g.metrics = m
	}
}

// NewAnalysisGateway wires a completer behind the breaker. The completer is
// shared read-only across calls and may be a test double.
func NewAnalysisGateway(
	completer Completer,
	breaker *resilience.Breaker,
	decoder *ResponseDecoder,
	opts ...GatewayOption,
) AnalysisGateway {
	g := &analysisGateway{
		completer:     completer,
		breaker:       breaker,
		decoder:       decoder,
		promptBuilder: NewPromptBuilder(),
		temperature:   DefaultTemperature,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Analyze implements AnalysisGateway.
func (g *analysisGateway) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	start := time.Now()

	result, err := g.analyze(ctx, req)

	outcome := gatewayOutcome(err)
	g.metrics.RecordGatewayCall(outcome, time.Since(start))
	if err != nil {
		g.logger.Error("analysis failed",
			zap.String("outcome", outcome),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	g.logger.Info("analysis completed",
		zap.Int("match_score", result.MatchScore),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (g *analysisGateway) analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	completionReq := CompletionRequest{
		System:      g.promptBuilder.BuildAnalysisSystemPrompt(),
		User:        g.promptBuilder.BuildAnalysisUserPrompt(req.ProfileText, req.JobDescription),
		Temperature: g.temperature,
		JSONMode:    true,
	}

	var content string
	err := g.breaker.Execute(ctx, completionOperation, func(callCtx context.Context) error {
		var callErr error
		content, callErr = g.completer.Complete(callCtx, completionReq)
		// Provider SDKs report deadlines with their own error types.
		if callErr != nil && !errors.Is(callErr, context.DeadlineExceeded) &&
			errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, callErr)
		}
		return callErr
	}, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, wrapError(ErrAnalysisTimedOut, "analyze", err)
		}
		return nil, wrapError(ErrAnalysisFailed, "analyze", err)
	}

	if strings.TrimSpace(content) == "" {
		return nil, wrapError(ErrEmptyResponse, "analyze", nil)
	}

	return g.decoder.Decode(content)
}

func gatewayOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsKind(err, ErrEmptyResponse):
		return "empty_response"
	case IsKind(err, ErrMalformedResponse):
		return "malformed_response"
	case IsKind(err, ErrAnalysisTimedOut):
		return "timed_out"
	case resilience.IsCircuitOpen(err):
		return "circuit_open"
	default:
		return "failed"
	}
}
