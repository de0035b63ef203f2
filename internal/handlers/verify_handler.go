package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/access"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/reader"
)

type VerifyHandler struct {
	verifier *access.Verifier
}

func NewVerifyHandler(verifier *access.Verifier) *VerifyHandler {
	return &VerifyHandler{verifier: verifier}
}

// LoginRequired answers doorway requests that carry no valid session.
func (h *VerifyHandler) LoginRequired(c *fiber.Ctx) error {
	slog.Info("verification attempted without session", "workflow", "verify", "request_id", requestID(c))
	h.verifier.LoginRequired()
	return redirect(c, "/login", dto.FlashDanger, msgLoginRequired)
}

func (h *VerifyHandler) Form(c *fiber.Ctx) error {
	username := middleware.Username(c)
	state := h.verifier.Prompt(username)
	return render(c, h.page(username, state), dto.Flash{Level: dto.FlashInfo, Message: msgScanPrompt})
}

func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	username := middleware.Username(c)
	h.verifier.Prompt(username)

	out, err := h.verifier.Verify(c.UserContext(), username)
	if err != nil {
		var hw *reader.HardwareError
		if errors.Is(err, reader.ErrTimeout) || errors.As(err, &hw) {
			return redirect(c, "/verify_rfid", dto.FlashDanger, msgScanIncomplete)
		}
		return err
	}

	prompt := dto.Flash{Level: dto.FlashInfo, Message: msgScanPrompt}
	switch out.Reason {
	case access.ReasonNoPresence:
		return render(c, h.page(username, out.State), prompt, dto.Flash{Level: dto.FlashDanger, Message: msgNoPresence})
	case access.ReasonTokenMismatch:
		return render(c, h.page(username, out.State), prompt, dto.Flash{Level: dto.FlashDanger, Message: msgTokenMismatch})
	}
	return redirect(c, "/", dto.FlashSuccess, msgGranted)
}

func (h *VerifyHandler) page(username string, state access.State) dto.Page {
	return dto.Page{Page: "verify_rfid", Username: username, State: string(state)}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
