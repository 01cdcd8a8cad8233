package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/session"
)

// RegisterSessionRoutes wires session transitions for authenticated callers.
func RegisterSessionRoutes(router fiber.Router, h *session.Handler) {
	auth := router.Group("/auth")
	auth.Post("/step-up", h.StepUp)
	auth.Post("/logout", h.Logout)
}
