package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/profile-analyzer/internal/config"
	"alfredoptarigan/profile-analyzer/internal/logging"
	"alfredoptarigan/profile-analyzer/internal/metrics"
	"alfredoptarigan/profile-analyzer/internal/server"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("provider", cfg.LLM.Provider),
		zap.Duration("llm_timeout", cfg.LLM.Timeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New("api")
	deps, err := server.BuildDependencies(ctx, cfg, logger, m)
	if err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}

	app := server.NewApp(ctx, cfg, deps)

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		os.Exit(1)
	}
}
