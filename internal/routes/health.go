package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterHealthRoutes wires liveness and readiness probes.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/readyz", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if d.DB != nil {
			if err := d.DB.Ping(ctx); err != nil {
				return fiber.NewError(http.StatusServiceUnavailable, "database unreachable")
			}
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				return fiber.NewError(http.StatusServiceUnavailable, "redis unreachable")
			}
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ready",
			"checked_at": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
