package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rheet26/transakt-secure-smart/internal/account"
	"github.com/Rheet26/transakt-secure-smart/internal/ledger"
	"github.com/Rheet26/transakt-secure-smart/internal/notification"
	"github.com/Rheet26/transakt-secure-smart/internal/session"
)

var (
	// ErrUnauthenticated occurs when no valid session backs the request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidAmount occurs when the amount does not parse to a strictly
	// positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRecipient occurs when the recipient name or contact is empty.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInsufficientFunds occurs when the amount exceeds the balance at the
	// moment of commit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountUnavailable occurs when a storage read or write fails cleanly,
	// with no money moved.
	ErrAccountUnavailable = errors.New("account store unavailable")

	// ErrAmbiguousCommit occurs when a storage call timed out after the write
	// may or may not have applied. Callers must reconcile against the ledger
	// instead of resubmitting.
	ErrAmbiguousCommit = errors.New("commit outcome unknown")
)

// Service executes transfers against the account and ledger stores, gated by
// the session manager. It is stateless across calls and never retries a
// financial mutation.
type Service struct {
	sessions *session.Manager
	accounts account.Store
	ledger   ledger.Store
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs a transfer service.
func NewService(sessions *session.Manager, accounts account.Store, ledgerStore ledger.Store, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, accounts: accounts, ledger: ledgerStore, notifier: notifier, logger: logger}
}

// Input captures the data needed to send money to a counterparty. Amount is
// the raw form value and is parsed here.
type Input struct {
	SessionID        string
	RecipientName    string
	RecipientContact string
	Amount           string
	Description      string
}

// Result describes the ledger outcome of a completed transfer.
type Result struct {
	TransactionID string
	Amount        decimal.Decimal
	Direction     ledger.Direction
	Status        ledger.Status
	CompletedAt   time.Time
}

// Transfer validates and executes an outbound transfer.
//
// Commit protocol (reserve then confirm): the transaction row is inserted as
// pending, the balance is debited through the store's conditional decrement,
// and the row then transitions exactly once to completed or failed. The guard
// inside the decrement is what keeps two racing transfers from both spending
// the same balance; pending and failed rows never affect the balance.
func (s *Service) Transfer(ctx context.Context, in Input) (Result, error) {
	sess, err := s.sessions.Get(ctx, in.SessionID)
	if err != nil {
		return Result{}, ErrUnauthenticated
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		return Result{}, err
	}

	name := strings.TrimSpace(in.RecipientName)
	contact := strings.TrimSpace(in.RecipientContact)
	if name == "" || contact == "" {
		return Result{}, ErrInvalidRecipient
	}

	// Always re-read the balance; a value observed before this call is stale
	// by definition.
	balance, err := s.accounts.Balance(ctx, sess.AccountID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: read balance: %v", ErrAccountUnavailable, err)
	}
	if amount.GreaterThan(balance) {
		return Result{}, ErrInsufficientFunds
	}

	tx := ledger.Transaction{
		ID:               uuid.NewString(),
		AccountID:        sess.AccountID,
		RecipientName:    name,
		RecipientContact: contact,
		Amount:           amount,
		Direction:        ledger.DirectionOutbound,
		Status:           ledger.StatusPending,
		Description:      strings.TrimSpace(in.Description),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.ledger.Insert(ctx, tx); err != nil {
		// A pending row never affects the balance, so even a timed-out insert
		// is a clean failure.
		return Result{}, fmt.Errorf("%w: insert transaction: %v", ErrAccountUnavailable, err)
	}

	ok, err := s.accounts.ConditionalDecrement(ctx, sess.AccountID, amount)
	if err != nil {
		if isInterrupted(err) {
			// The debit may have applied. Leave the row pending so the caller
			// can reconcile; do not guess either way.
			s.logger.Warn("transfer interrupted mid-commit", "transaction_id", tx.ID, "error", err)
			return Result{}, ErrAmbiguousCommit
		}
		s.failTransaction(tx.ID)
		return Result{}, fmt.Errorf("%w: decrement balance: %v", ErrAccountUnavailable, err)
	}
	if !ok {
		s.failTransaction(tx.ID)
		return Result{}, ErrInsufficientFunds
	}

	if err := s.ledger.UpdateStatus(ctx, tx.ID, ledger.StatusCompleted); err != nil {
		// The debit applied but the record state is unknown to the caller.
		s.logger.Warn("transfer debited but confirmation failed", "transaction_id", tx.ID, "error", err)
		return Result{}, ErrAmbiguousCommit
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferSent,
			Destination: contact,
			Body:        fmt.Sprintf("You received %s from account %s", amount.StringFixed(2), sess.AccountID),
		})
	}

	return Result{
		TransactionID: tx.ID,
		Amount:        amount,
		Direction:     ledger.DirectionOutbound,
		Status:        ledger.StatusCompleted,
		CompletedAt:   time.Now().UTC(),
	}, nil
}

// ReceiveInput captures an inbound credit from a counterparty.
type ReceiveInput struct {
	SessionID     string
	SenderName    string
	SenderContact string
	Amount        string
	Description   string
}

// Receive credits the account and appends an inbound ledger record under the
// same pending/confirm discipline as Transfer. A credit has no balance guard
// to fail, but the status transition still happens exactly once.
func (s *Service) Receive(ctx context.Context, in ReceiveInput) (Result, error) {
	sess, err := s.sessions.Get(ctx, in.SessionID)
	if err != nil {
		return Result{}, ErrUnauthenticated
	}

	amount, err := parseAmount(in.Amount)
	if err != nil {
		return Result{}, err
	}

	name := strings.TrimSpace(in.SenderName)
	contact := strings.TrimSpace(in.SenderContact)
	if name == "" || contact == "" {
		return Result{}, ErrInvalidRecipient
	}

	tx := ledger.Transaction{
		ID:               uuid.NewString(),
		AccountID:        sess.AccountID,
		RecipientName:    name,
		RecipientContact: contact,
		Amount:           amount,
		Direction:        ledger.DirectionInbound,
		Status:           ledger.StatusPending,
		Description:      strings.TrimSpace(in.Description),
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.ledger.Insert(ctx, tx); err != nil {
		return Result{}, fmt.Errorf("%w: insert transaction: %v", ErrAccountUnavailable, err)
	}

	if err := s.accounts.Credit(ctx, sess.AccountID, amount); err != nil {
		if isInterrupted(err) {
			s.logger.Warn("credit interrupted mid-commit", "transaction_id", tx.ID, "error", err)
			return Result{}, ErrAmbiguousCommit
		}
		s.failTransaction(tx.ID)
		return Result{}, fmt.Errorf("%w: credit balance: %v", ErrAccountUnavailable, err)
	}

	if err := s.ledger.UpdateStatus(ctx, tx.ID, ledger.StatusCompleted); err != nil {
		s.logger.Warn("credit applied but confirmation failed", "transaction_id", tx.ID, "error", err)
		return Result{}, ErrAmbiguousCommit
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransferReceived,
			Destination: sess.AccountID,
			Body:        fmt.Sprintf("Received %s from %s", amount.StringFixed(2), name),
		})
	}

	return Result{
		TransactionID: tx.ID,
		Amount:        amount,
		Direction:     ledger.DirectionInbound,
		Status:        ledger.StatusCompleted,
		CompletedAt:   time.Now().UTC(),
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount, nil
}

// failTransaction moves a reserved row to failed. Best effort: the row is
// pending and pending never counts toward the balance, so a miss here only
// delays reconciliation.
func (s *Service) failTransaction(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.ledger.UpdateStatus(ctx, id, ledger.StatusFailed); err != nil {
		s.logger.Warn("could not mark transaction failed", "transaction_id", id, "error", err)
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
