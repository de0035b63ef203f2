package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/access"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
)

type EnrollmentHandler struct {
	enroller *access.Enroller
}

func NewEnrollmentHandler(enroller *access.Enroller) *EnrollmentHandler {
	return &EnrollmentHandler{enroller: enroller}
}

// Unauthorized answers status requests that carry no valid session.
func (h *EnrollmentHandler) Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Login required",
	})
}

// Status reports the caller's own latest enrollment. Other participants'
// tasks answer 404 like unknown ones. The bound token is never returned.
func (h *EnrollmentHandler) Status(c *fiber.Ctx) error {
	username := c.Params("username")
	task, ok := h.enroller.Status(username)
	if !ok || middleware.Username(c) != username {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "No enrollment found for this participant",
		})
	}

	resp := dto.EnrollmentResponse{
		TaskID:    task.ID.String(),
		Username:  task.Username,
		Status:    string(task.Status()),
		StartedAt: task.StartedAt,
	}
	if err := task.Err(); err != nil {
		resp.Error = err.Error()
	}
	if finished := task.FinishedAt(); !finished.IsZero() {
		resp.FinishedAt = &finished
	}
	return c.JSON(resp)
}
