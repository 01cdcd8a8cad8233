package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Rheet26/transakt-secure-smart/internal/session"
)

// Handler exposes sign-up and sign-in endpoints. Completed flows are handed
// to the session manager as establishment events.
type Handler struct {
	ids      *Service
	sessions *session.Manager
}

// NewHandler constructs an identity handler.
func NewHandler(ids *Service, sessions *session.Manager) *Handler {
	return &Handler{ids: ids, sessions: sessions}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	AccountID string `json:"account_id"`
	Method    string `json:"method"`
}

// Signup registers a user and establishes a session.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ids.Register(c.UserContext(), Credentials{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.sessions.Establish(c.UserContext(), session.Event{AccountID: user.ID, Method: session.MethodPassword})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not establish session")
	}

	return c.Status(http.StatusCreated).JSON(sessionResponse{SessionID: sess.ID, AccountID: sess.AccountID, Method: string(sess.Method)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies email/password credentials and establishes a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ids.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid email or password")
	}

	sess, err := h.sessions.Establish(c.UserContext(), session.Event{AccountID: user.ID, Method: session.MethodPassword})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not establish session")
	}

	return c.Status(http.StatusOK).JSON(sessionResponse{SessionID: sess.ID, AccountID: sess.AccountID, Method: string(sess.Method)})
}

type linkRequest struct {
	Email string `json:"email"`
}

// RequestLink issues a one-time sign-in link. The response is the same
// whether or not the email is registered; the token travels through the
// notifier, never through this response.
func (h *Handler) RequestLink(c *fiber.Ctx) error {
	var req linkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.ids.RequestLink(c.UserContext(), req.Email); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not issue link")
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "link_sent"})
}

type confirmRequest struct {
	Token string `json:"token"`
}

// ConfirmLink consumes a one-time link token and establishes a session.
func (h *Handler) ConfirmLink(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.ids.ConfirmLink(c.UserContext(), req.Token)
	if err != nil {
		if errors.Is(err, ErrLinkInvalid) {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired link")
		}
		return fiber.NewError(http.StatusInternalServerError, "could not confirm link")
	}

	sess, err := h.sessions.Establish(c.UserContext(), session.Event{AccountID: user.ID, Method: session.MethodMagicLink})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not establish session")
	}

	return c.Status(http.StatusOK).JSON(sessionResponse{SessionID: sess.ID, AccountID: sess.AccountID, Method: string(sess.Method)})
}
