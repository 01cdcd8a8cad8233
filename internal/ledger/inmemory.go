package ledger

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu           sync.RWMutex
	transactions map[string]Transaction
}

// NewMemoryStore creates a concurrency-safe in-memory ledger store, used in
// dev mode and unit tests.
func NewMemoryStore() Store {
	return &memoryStore{transactions: make(map[string]Transaction)}
}

func (s *memoryStore) Insert(_ context.Context, tx Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[tx.ID] = tx
	return nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return ErrNotFound
	}
	if tx.Status != StatusPending {
		return ErrStatusFinal
	}
	tx.Status = status
	s.transactions[id] = tx
	return nil
}

func (s *memoryStore) ListByAccount(_ context.Context, accountID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var results []Transaction
	for _, tx := range s.transactions {
		if tx.AccountID == accountID {
			results = append(results, tx)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}
