package middleware

import (
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/session"
)

const usernameKey = "username"

// SessionRequired validates the session cookie and stores the username in
// the request locals. Requests without a valid session are handed to
// onMissing.
func SessionRequired(mgr *session.Manager, onMissing fiber.Handler) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: mgr.Secret()},
		TokenLookup: "cookie:" + session.CookieName,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			username, err := session.Username(token)
			if err != nil {
				return onMissing(c)
			}
			c.Locals(usernameKey, username)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return onMissing(c)
		},
	})
}

// Username returns the participant set by SessionRequired.
func Username(c *fiber.Ctx) string {
	username, _ := c.Locals(usernameKey).(string)
	return username
}

// SetSession stores a signed session token in its cookie.
func SetSession(c *fiber.Ctx, token string, expires time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
