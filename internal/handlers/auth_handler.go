package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/display"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/services"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/session"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/storage"
)

type AuthHandler struct {
	registration  *services.RegistrationService
	auth          *services.AuthService
	sessions      *session.Manager
	display       display.Sink
	secureCookies bool
}

func NewAuthHandler(registration *services.RegistrationService, auth *services.AuthService,
	sessions *session.Manager, sink display.Sink, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		registration:  registration,
		auth:          auth,
		sessions:      sessions,
		display:       sink,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, dto.Page{Page: "register", Fields: registerFields})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return redirect(c, "/register", dto.FlashDanger, msgInvalidBody)
	}

	_, _, err := h.registration.Register(c.UserContext(), services.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		CNP:      req.CNP,
		IDCard:   req.IDCard,
		Phone:    req.Phone,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Address:  req.Address,
		City:     req.City,
		County:   req.County,
	})
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			return redirect(c, "/register", dto.FlashDanger, verr.Message)
		case errors.Is(err, storage.ErrDuplicate):
			return redirect(c, "/register", dto.FlashDanger, msgDuplicate)
		default:
			slog.Error("registration failed", "workflow", "register", "username", req.Username, "error", err)
			return redirect(c, "/register", dto.FlashDanger, msgRegisterFailed)
		}
	}

	return redirect(c, "/", dto.FlashSuccess, msgRegistered)
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, dto.Page{Page: "login"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return redirect(c, "/login", dto.FlashDanger, msgInvalidBody)
	}

	p, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.display.Show("Login failed", req.Username)
			return redirect(c, "/login", dto.FlashDanger, msgLoginFailed)
		}
		return err
	}

	token, expires, err := h.sessions.Issue(p.Username)
	if err != nil {
		return err
	}
	middleware.SetSession(c, token, expires, h.secureCookies)

	h.display.Show("Login success", p.Username)
	return redirect(c, "/verify_rfid", dto.FlashSuccess, msgLoginSuccess)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSession(c)
	return redirect(c, "/", dto.FlashInfo, msgLoggedOut)
}
