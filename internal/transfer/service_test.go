package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Rheet26/transakt-secure-smart/internal/account"
	"github.com/Rheet26/transakt-secure-smart/internal/ledger"
	"github.com/Rheet26/transakt-secure-smart/internal/logging"
	"github.com/Rheet26/transakt-secure-smart/internal/session"
)

type fixture struct {
	svc       *Service
	sessions  *session.Manager
	accounts  account.Store
	ledger    ledger.Store
	sessionID string
	accountID string
}

func newFixture(t *testing.T, balance string) *fixture {
	t.Helper()
	accounts := account.NewMemoryStore()
	ledgerStore := ledger.NewMemoryStore()
	sessions := session.NewManager(session.NewMemoryStore(0), logging.Discard())

	ctx := context.Background()
	sess, err := sessions.Establish(ctx, session.Event{AccountID: "acct-1", Method: session.MethodPassword})
	if err != nil {
		t.Fatalf("establish session: %v", err)
	}
	account.SeedBalance(accounts, sess.AccountID, decimal.RequireFromString(balance))

	return &fixture{
		svc:       NewService(sessions, accounts, ledgerStore, nil, logging.Discard()),
		sessions:  sessions,
		accounts:  accounts,
		ledger:    ledgerStore,
		sessionID: sess.ID,
		accountID: sess.AccountID,
	}
}

func (f *fixture) send(amount string) (Result, error) {
	return f.svc.Transfer(context.Background(), Input{
		SessionID:        f.sessionID,
		RecipientName:    "Sarah Johnson",
		RecipientContact: "sarah@example.com",
		Amount:           amount,
		Description:      "rent",
	})
}

func TestTransferSuccess(t *testing.T) {
	f := newFixture(t, "100.00")

	res, err := f.send("80.00")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if res.Status != ledger.StatusCompleted {
		t.Fatalf("expected completed, got %s", res.Status)
	}

	balance, err := f.accounts.Balance(context.Background(), f.accountID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected balance 20.00, got %s", balance)
	}

	list, err := f.ledger.ListByAccount(context.Background(), f.accountID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 ledger record, got %d", len(list))
	}
	got := list[0]
	if got.ID != res.TransactionID || got.Status != ledger.StatusCompleted ||
		got.Direction != ledger.DirectionOutbound || !got.Amount.Equal(decimal.RequireFromString("80.00")) {
		t.Fatalf("unexpected ledger record: %+v", got)
	}
}

func TestTransferInsufficientFundsAfterDebit(t *testing.T) {
	f := newFixture(t, "100.00")

	if _, err := f.send("80.00"); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if _, err := f.send("80.00"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := f.accounts.Balance(context.Background(), f.accountID)
	if !balance.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("balance must remain 20.00, got %s", balance)
	}
}

// forbiddenAccounts fails the test on any storage access. Validation errors
// must short-circuit before a single storage call happens.
type forbiddenAccounts struct {
	t *testing.T
}

func (s forbiddenAccounts) Create(context.Context, account.Account) error {
	s.t.Error("unexpected Create call")
	return nil
}

func (s forbiddenAccounts) Get(context.Context, string) (account.Account, error) {
	s.t.Error("unexpected Get call")
	return account.Account{}, nil
}

func (s forbiddenAccounts) Balance(context.Context, string) (decimal.Decimal, error) {
	s.t.Error("unexpected Balance call")
	return decimal.Decimal{}, nil
}

func (s forbiddenAccounts) ConditionalDecrement(context.Context, string, decimal.Decimal) (bool, error) {
	s.t.Error("unexpected ConditionalDecrement call")
	return false, nil
}

func (s forbiddenAccounts) Credit(context.Context, string, decimal.Decimal) error {
	s.t.Error("unexpected Credit call")
	return nil
}

func TestTransferInvalidAmountBeforeStorage(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore(0), logging.Discard())
	sess, _ := sessions.Establish(context.Background(), session.Event{AccountID: "acct-1", Method: session.MethodPassword})
	svc := NewService(sessions, forbiddenAccounts{t}, ledger.NewMemoryStore(), nil, logging.Discard())

	for _, amount := range []string{"-5", "0", "abc", ""} {
		_, err := svc.Transfer(context.Background(), Input{
			SessionID:        sess.ID,
			RecipientName:    "Mike Chen",
			RecipientContact: "mike@example.com",
			Amount:           amount,
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %q: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestTransferInvalidRecipient(t *testing.T) {
	f := newFixture(t, "100.00")

	_, err := f.svc.Transfer(context.Background(), Input{
		SessionID:        f.sessionID,
		RecipientName:    "   ",
		RecipientContact: "mike@example.com",
		Amount:           "10.00",
	})
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}

	_, err = f.svc.Transfer(context.Background(), Input{
		SessionID:        f.sessionID,
		RecipientName:    "Mike Chen",
		RecipientContact: "",
		Amount:           "10.00",
	})
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}

func TestTransferUnauthenticated(t *testing.T) {
	f := newFixture(t, "100.00")

	_, err := f.svc.Transfer(context.Background(), Input{
		SessionID:        "not-a-session",
		RecipientName:    "Mike Chen",
		RecipientContact: "mike@example.com",
		Amount:           "10.00",
	})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	_ = f.sessions.Logout(context.Background(), f.sessionID)
	if _, err := f.send("10.00"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestConcurrentTransfersExactlyOneWins(t *testing.T) {
	f := newFixture(t, "100.00")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.send("60.00")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, insufficient int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one winner: successes=%d insufficient=%d", successes, insufficient)
	}

	balance, _ := f.accounts.Balance(context.Background(), f.accountID)
	if !balance.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected final balance 40.00, got %s", balance)
	}
}

func TestConcurrentTransfersNeverOverdraw(t *testing.T) {
	f := newFixture(t, "100.00")

	const workers = 20
	var wg sync.WaitGroup
	succeeded := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.send("15.00"); err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	wins := 0
	for range succeeded {
		wins++
	}
	// 100.00 funds at most six transfers of 15.00.
	if wins > 6 {
		t.Fatalf("overdraft: %d transfers succeeded", wins)
	}

	balance, _ := f.accounts.Balance(context.Background(), f.accountID)
	if balance.IsNegative() {
		t.Fatalf("balance went negative: %s", balance)
	}
	want := decimal.RequireFromString("100.00").Sub(decimal.NewFromInt(int64(wins) * 15))
	if !balance.Equal(want) {
		t.Fatalf("balance %s does not match %d completed transfers", balance, wins)
	}
}

// interruptedAccounts simulates a timeout on the balance mutation after the
// pending row was written.
type interruptedAccounts struct {
	account.Store
}

func (s interruptedAccounts) ConditionalDecrement(context.Context, string, decimal.Decimal) (bool, error) {
	return false, context.DeadlineExceeded
}

func TestTransferAmbiguousCommitLeavesPending(t *testing.T) {
	f := newFixture(t, "100.00")
	f.svc = NewService(f.sessions, interruptedAccounts{f.accounts}, f.ledger, nil, logging.Discard())

	_, err := f.send("10.00")
	if !errors.Is(err, ErrAmbiguousCommit) {
		t.Fatalf("expected ErrAmbiguousCommit, got %v", err)
	}

	// The reserved row must stay pending for reconciliation, not be guessed
	// into a terminal state.
	list, _ := f.ledger.ListByAccount(context.Background(), f.accountID)
	if len(list) != 1 || list[0].Status != ledger.StatusPending {
		t.Fatalf("expected one pending record, got %+v", list)
	}
}

func TestReceiveCreditsBalance(t *testing.T) {
	f := newFixture(t, "100.00")

	res, err := f.svc.Receive(context.Background(), ReceiveInput{
		SessionID:     f.sessionID,
		SenderName:    "Emma Davis",
		SenderContact: "emma@example.com",
		Amount:        "25.50",
		Description:   "lunch",
	})
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if res.Direction != ledger.DirectionInbound || res.Status != ledger.StatusCompleted {
		t.Fatalf("unexpected result: %+v", res)
	}

	balance, _ := f.accounts.Balance(context.Background(), f.accountID)
	if !balance.Equal(decimal.RequireFromString("125.50")) {
		t.Fatalf("expected balance 125.50, got %s", balance)
	}
}
