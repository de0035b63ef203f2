package middleware

import (
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the kiosk frontend to post forms and carry the session
// cookie. Credentials are only allowed for an explicit origin list.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: cfg.CORSOrigins != "" && cfg.CORSOrigins != "*",
	})
}
