package account

import "github.com/shopspring/decimal"

// SeedBalance is a test helper that overwrites the balance of an account when
// using the in-memory store.
func SeedBalance(s Store, id string, balance decimal.Decimal) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		acct := mem.accounts[id]
		acct.ID = id
		acct.Balance = balance
		mem.accounts[id] = acct
	}
}
