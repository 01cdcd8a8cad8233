package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/identity"
)

// RegisterAuthRoutes wires the public sign-up and sign-in endpoints.
func RegisterAuthRoutes(router fiber.Router, h *identity.Handler, rateLimiter fiber.Handler) {
	auth := router.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", rateLimiter, h.Login)
	auth.Post("/link", rateLimiter, h.RequestLink)
	auth.Post("/confirm", h.ConfirmLink)
}
