package account

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

// NewMemoryStore creates a concurrency-safe in-memory account store, used in
// dev mode and unit tests.
func NewMemoryStore() Store {
	return &memoryStore{accounts: make(map[string]Account)}
}

func (s *memoryStore) Create(_ context.Context, acct Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = acct
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (s *memoryStore) Balance(_ context.Context, id string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return decimal.Decimal{}, ErrNotFound
	}
	return acct.Balance, nil
}

func (s *memoryStore) ConditionalDecrement(_ context.Context, id string, amount decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return false, ErrNotFound
	}
	if acct.Balance.LessThan(amount) {
		return false, nil
	}
	acct.Balance = acct.Balance.Sub(amount)
	acct.UpdatedAt = time.Now().UTC()
	s.accounts[id] = acct
	return true, nil
}

func (s *memoryStore) Credit(_ context.Context, id string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acct.Balance = acct.Balance.Add(amount)
	acct.UpdatedAt = time.Now().UTC()
	s.accounts[id] = acct
	return nil
}
