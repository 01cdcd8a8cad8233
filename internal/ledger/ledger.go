package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates the requested transaction does not exist.
	ErrNotFound = errors.New("transaction not found")

	// ErrStatusFinal indicates an attempt to transition a transaction whose
	// status already left pending. The pending -> terminal transition happens
	// at most once.
	ErrStatusFinal = errors.New("transaction status already final")
)

// Direction classifies a transaction relative to the owning account.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Status is the lifecycle state of a transaction. Only pending transactions
// may transition, and only to completed or failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction is one append-only ledger record. All fields besides Status are
// immutable once written; records are never deleted.
type Transaction struct {
	ID               string
	AccountID        string
	RecipientName    string
	RecipientContact string
	Amount           decimal.Decimal
	Direction        Direction
	Status           Status
	Description      string
	CreatedAt        time.Time
}

// Store defines the contract implemented by ledger backends (e.g. Postgres).
type Store interface {
	Insert(ctx context.Context, tx Transaction) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	ListByAccount(ctx context.Context, accountID string) ([]Transaction, error)
}
