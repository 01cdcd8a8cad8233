package history

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the transaction history endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a history handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transactionResponse struct {
	ID               string `json:"id"`
	RecipientName    string `json:"recipient_name"`
	RecipientContact string `json:"recipient_contact"`
	Amount           string `json:"amount"`
	Direction        string `json:"direction"`
	Status           string `json:"status"`
	Description      string `json:"description,omitempty"`
	CreatedAt        string `json:"created_at"`
}

// List returns the session account's filtered transactions plus a summary.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID, _ := c.Locals("account_id").(string)
	if accountID == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthenticated")
	}

	filter := Filter{
		Type: ParseTypeFilter(c.Query("type")),
		Term: c.Query("search"),
	}

	txs, err := h.service.List(c.UserContext(), accountID, filter)
	if err != nil {
		return fiber.NewError(http.StatusServiceUnavailable, "ledger unavailable")
	}

	summary := Aggregate(txs)

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:               tx.ID,
			RecipientName:    tx.RecipientName,
			RecipientContact: tx.RecipientContact,
			Amount:           tx.Amount.StringFixed(2),
			Direction:        string(tx.Direction),
			Status:           string(tx.Status),
			Description:      tx.Description,
			CreatedAt:        tx.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	countByType := fiber.Map{}
	for direction, n := range summary.CountByType {
		countByType[string(direction)] = n
	}

	return c.JSON(fiber.Map{
		"transactions": out,
		"summary": fiber.Map{
			"count":         summary.Count,
			"count_by_type": countByType,
			"total_amount":  summary.TotalAmount.StringFixed(2),
		},
	})
}
