package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/session"
)

func Setup(
	app *fiber.App,
	sessions *session.Manager,
	homeHandler *handlers.HomeHandler,
	authHandler *handlers.AuthHandler,
	verifyHandler *handlers.VerifyHandler,
	enrollmentHandler *handlers.EnrollmentHandler,
	healthHandler *handlers.HealthHandler,
	metricsHandler http.Handler,
) {
	// Doorway pages
	app.Get("/", homeHandler.Index)
	app.Get("/register", authHandler.RegisterForm)
	app.Post("/register", authHandler.Register)
	app.Get("/login", authHandler.LoginForm)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	// Verification requires a session; without one the display asks for a login
	requireSession := middleware.SessionRequired(sessions, verifyHandler.LoginRequired)
	app.Get("/verify_rfid", requireSession, verifyHandler.Form)
	app.Post("/verify_rfid", requireSession, verifyHandler.Verify)

	ownSession := middleware.SessionRequired(sessions, enrollmentHandler.Unauthorized)
	app.Get("/enrollment/:username", ownSession, enrollmentHandler.Status)

	if metricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metricsHandler))
	}

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)
}
