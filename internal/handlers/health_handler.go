package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

type HealthHandler struct {
	store storage.ParticipantStore
}

func NewHealthHandler(store storage.ParticipantStore) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx := c.UserContext()
	status, dbStatus := "ok", "ok"
	if err := h.store.Ping(ctx); err != nil {
		status, dbStatus = "degraded", "unhealthy: "+err.Error()
	}
	count, _ := h.store.Count(ctx)

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(dto.HealthResponse{
		Status:       status,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		DB:           dbStatus,
		Participants: count,
	})
}
