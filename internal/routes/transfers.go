package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/transfer"
)

// RegisterTransferRoutes wires the money movement endpoints.
func RegisterTransferRoutes(router fiber.Router, h *transfer.Handler) {
	router.Post("/transfers", h.Send)
	router.Post("/transfers/receive", h.Receive)
}
