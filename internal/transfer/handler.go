package transfer

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes transfer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sendRequest struct {
	RecipientName    string `json:"recipient_name"`
	RecipientContact string `json:"recipient_contact"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
}

// Send processes an outbound transfer for the session's account.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sessionID, _ := c.Locals("session_id").(string)

	res, err := h.service.Transfer(c.UserContext(), Input{
		SessionID:        sessionID,
		RecipientName:    req.RecipientName,
		RecipientContact: req.RecipientContact,
		Amount:           req.Amount,
		Description:      req.Description,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": res.TransactionID,
		"amount":         res.Amount.StringFixed(2),
		"direction":      res.Direction,
		"status":         res.Status,
		"completed_at":   res.CompletedAt,
	})
}

type receiveRequest struct {
	SenderName    string `json:"sender_name"`
	SenderContact string `json:"sender_contact"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

// Receive credits an inbound payment to the session's account.
func (h *Handler) Receive(c *fiber.Ctx) error {
	var req receiveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sessionID, _ := c.Locals("session_id").(string)

	res, err := h.service.Receive(c.UserContext(), ReceiveInput{
		SessionID:     sessionID,
		SenderName:    req.SenderName,
		SenderContact: req.SenderContact,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		return mapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": res.TransactionID,
		"amount":         res.Amount.StringFixed(2),
		"direction":      res.Direction,
		"status":         res.Status,
		"completed_at":   res.CompletedAt,
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	case errors.Is(err, ErrInvalidRecipient):
		return fiber.NewError(http.StatusBadRequest, "invalid recipient")
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, "insufficient funds")
	case errors.Is(err, ErrAmbiguousCommit):
		// Distinct from a clean failure: the caller must reconcile against the
		// ledger rather than resubmit.
		return fiber.NewError(http.StatusBadGateway, "commit outcome unknown, reconcile before retrying")
	case errors.Is(err, ErrAccountUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, "account store unavailable")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
