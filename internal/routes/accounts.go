package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/account"
)

// RegisterAccountRoutes wires the balance endpoint. The balance is read fresh
// from the store on every call; nothing is served from a cached value.
func RegisterAccountRoutes(router fiber.Router, accounts account.Store) {
	router.Get("/accounts/me", func(c *fiber.Ctx) error {
		accountID, _ := c.Locals("account_id").(string)
		if accountID == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}

		acct, err := accounts.Get(c.UserContext(), accountID)
		if err != nil {
			return fiber.NewError(http.StatusServiceUnavailable, "account store unavailable")
		}

		return c.JSON(fiber.Map{
			"account_id":   acct.ID,
			"display_name": acct.DisplayName,
			"balance":      acct.Balance.StringFixed(2),
			"as_of":        time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
