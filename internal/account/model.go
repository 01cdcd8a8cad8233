package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the balance-bearing record backing a user profile.
type Account struct {
	ID          string
	DisplayName string
	Balance     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
