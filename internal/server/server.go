package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/config"
	"alfredoptarigan/profile-analyzer/internal/handlers"
	"alfredoptarigan/profile-analyzer/internal/metrics"
	"alfredoptarigan/profile-analyzer/internal/resilience"
	"alfredoptarigan/profile-analyzer/internal/services"
)

const (
	AppName = "Profile Analyzer API"
	Version = "1.0.0"
)

// Dependencies are the shared, read-only collaborators of every request.
type Dependencies struct {
	PDFParser services.PDFParserService
	Validator services.RequestValidator
	Gateway   services.AnalysisGateway
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// BuildDependencies wires the extraction and analysis pipeline from cfg.
func BuildDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Dependencies, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	completer, err := services.NewCompleter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	decoder, err := services.NewResponseDecoder()
	if err != nil {
		return nil, err
	}

	breaker := resilience.NewBreaker(resilience.Config{
		Timeout:             cfg.LLM.Timeout,
		BreakerEnabled:      cfg.Breaker.Enabled,
		BreakerMinRequests:  cfg.Breaker.MinRequests,
		BreakerFailureRatio: cfg.Breaker.FailureRatio,
		BreakerOpenTimeout:  cfg.Breaker.OpenTimeout,
	}, logger)

	gateway := services.NewAnalysisGateway(completer, breaker, decoder,
		services.WithTemperature(cfg.LLM.Temperature),
		services.WithLogger(logger),
		services.WithMetrics(m),
	)

	return &Dependencies{
		PDFParser: services.NewPDFParserService(logger, m),
		Validator: services.NewRequestValidator(),
		Gateway:   gateway,
		Metrics:   m,
		Logger:    logger,
	}, nil
}

// NewApp builds the Fiber application with middleware and routes. Every
// request context derives from ctx, so cancelling ctx aborts in-flight calls.
func NewApp(ctx context.Context, cfg *config.Config, deps *Dependencies) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: newErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	app.Use(metricsMiddleware(deps.Metrics))
	app.Use(requestContext(ctx))

	parsePDFHandler := handlers.NewParsePDFHandler(deps.PDFParser, log)
	analyzeHandler := handlers.NewAnalyzeHandler(deps.Validator, deps.Gateway, log)
	healthHandler := handlers.NewHealthHandler(AppName, Version, cfg.LLM.Provider)

	// Routes
	api := app.Group("/api")
	api.Get("/health", healthHandler.HandleHealth)
	api.Post("/parse-pdf", parsePDFHandler.HandleParsePDF)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)

	app.Get("/", healthHandler.HandleInfo)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	return app
}

// requestContext replaces Fiber's never-cancelled user context. fasthttp does
// not report client disconnects, so only server shutdown cancels it.
func requestContext(base context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(base)
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}

func metricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.IncInFlight()
		defer m.DecInFlight()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		m.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}

func newErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.Error("unhandled error",
				zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
			"code":  code,
		})
	}
}
