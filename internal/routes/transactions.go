package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/history"
)

// RegisterHistoryRoutes wires the transaction history endpoint.
func RegisterHistoryRoutes(router fiber.Router, h *history.Handler) {
	router.Get("/transactions", h.List)
}
