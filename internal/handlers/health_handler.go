package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	appName  string
	version  string
	provider string
}

func NewHealthHandler(appName, version, provider string) *HealthHandler {
	return &HealthHandler{
		appName:  appName,
		version:  version,
		provider: provider,
	}
}

// HandleHealth handles GET /api/health
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now(),
	})
}

// HandleInfo handles GET /
func (h *HealthHandler) HandleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":  h.appName,
		"version":  h.version,
		"provider": h.provider,
		"endpoints": []string{
			"POST /api/parse-pdf",
			"POST /api/analyze",
			"GET /api/health",
			"GET /metrics",
		},
	})
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
