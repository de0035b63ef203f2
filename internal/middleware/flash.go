package middleware

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/dto"
)

// FlashCookie carries one message across a redirect as base64url JSON.
const FlashCookie = "flash"

func SetFlash(c *fiber.Ctx, level, message string) {
	raw, err := json.Marshal(dto.Flash{Level: level, Message: message})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// TakeFlash returns the pending message, if any, and clears its cookie.
func TakeFlash(c *fiber.Ctx) (dto.Flash, bool) {
	value := c.Cookies(FlashCookie)
	if value == "" {
		return dto.Flash{}, false
	}
	c.Cookie(&fiber.Cookie{
		Name:    FlashCookie,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return dto.Flash{}, false
	}
	var f dto.Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return dto.Flash{}, false
	}
	return f, true
}
