package session

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes session transition endpoints for an authenticated caller.
type Handler struct {
	manager *Manager
}

// NewHandler constructs a session handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// StepUp grants the reauthentication capability on the current session. The
// route sits behind the session middleware, so an anonymous caller never
// reaches the grant at all; the manager enforces the same precondition again.
func (h *Handler) StepUp(c *fiber.Ctx) error {
	sessionID, _ := c.Locals("session_id").(string)

	sess, err := h.manager.GrantStepUp(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSession) {
			return fiber.NewError(http.StatusUnauthorized, "no active session")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"session_id": sess.ID,
		"account_id": sess.AccountID,
		"step_up":    sess.StepUp,
	})
}

// Logout invalidates the current session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	sessionID, _ := c.Locals("session_id").(string)

	if err := h.manager.Logout(c.UserContext(), sessionID); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"status": "logged_out"})
}
