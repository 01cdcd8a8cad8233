package account

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested account does not exist.
var ErrNotFound = errors.New("account not found")

// Store defines the contract implemented by account backends (e.g. Postgres).
//
// Balance is always read fresh from the backend; callers must never reuse a
// previously observed value across a mutation. ConditionalDecrement is the
// only way balance decreases: the guard and the write are one atomic step.
type Store interface {
	Create(ctx context.Context, acct Account) error
	Get(ctx context.Context, id string) (Account, error)
	Balance(ctx context.Context, id string) (decimal.Decimal, error)
	ConditionalDecrement(ctx context.Context, id string, amount decimal.Decimal) (bool, error)
	Credit(ctx context.Context, id string, amount decimal.Decimal) error
}
