package handler

import (
	"context"
	"time"

	"quizflare/internal/domain"
	"quizflare/internal/dto"

	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports liveness of the cache and whether the AI features
// have a model behind them. A missing model degrades the service but does
// not fail the check.
type HealthHandler struct {
	cache        domain.Cache
	aiConfigured bool
	version      string
}

func NewHealthHandler(cache domain.Cache, aiConfigured bool, version string) *HealthHandler {
	return &HealthHandler{cache: cache, aiConfigured: aiConfigured, version: version}
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Checks: map[string]string{}, Version: h.version}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			resp.Status = "unavailable"
			resp.Checks["cache"] = err.Error()
		} else {
			resp.Checks["cache"] = "ok"
		}
	}

	if h.aiConfigured {
		resp.Checks["ai"] = "ok"
	} else {
		resp.Checks["ai"] = "not configured"
	}

	if resp.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
