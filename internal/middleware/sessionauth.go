package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/session"
)

// SessionAuth validates the bearer session id against the session manager and
// stashes the session and account ids for downstream handlers. Expired or
// logged-out sessions are rejected here; services re-check the session on
// every mutating operation regardless.
func SessionAuth(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer session")
		}
		sessionID := strings.TrimSpace(authz[len("Bearer "):])

		sess, err := sessions.Get(c.UserContext(), sessionID)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "no active session")
		}

		c.Locals("session_id", sess.ID)
		c.Locals("account_id", sess.AccountID)
		return c.Next()
	}
}
