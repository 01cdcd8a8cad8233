package history

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Rheet26/transakt-secure-smart/internal/ledger"
)

// TypeFilter restricts results by transaction direction.
type TypeFilter string

const (
	TypeAll      TypeFilter = "all"
	TypeOutbound TypeFilter = TypeFilter(ledger.DirectionOutbound)
	TypeInbound  TypeFilter = TypeFilter(ledger.DirectionInbound)
)

// ParseTypeFilter maps a raw query value to a TypeFilter. Unknown or empty
// values mean unrestricted.
func ParseTypeFilter(raw string) TypeFilter {
	switch TypeFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeOutbound:
		return TypeOutbound
	case TypeInbound:
		return TypeInbound
	default:
		return TypeAll
	}
}

// Filter is the explicit predicate applied to an account's transactions. Type
// and Term combine with logical AND; an empty Term matches everything.
type Filter struct {
	Type TypeFilter
	Term string
}

// Matches reports whether the transaction passes the filter. The term matches
// case-insensitively as a substring of the counterparty name, contact, or
// description.
func (f Filter) Matches(tx ledger.Transaction) bool {
	if f.Type != "" && f.Type != TypeAll && ledger.Direction(f.Type) != tx.Direction {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(tx.RecipientName), term) ||
		strings.Contains(strings.ToLower(tx.RecipientContact), term) ||
		strings.Contains(strings.ToLower(tx.Description), term)
}

// Service reads and filters ledger records. All operations are read-only.
type Service struct {
	ledger ledger.Store
}

// NewService constructs a history query service.
func NewService(ledgerStore ledger.Store) *Service {
	return &Service{ledger: ledgerStore}
}

// List returns the account's transactions passing the filter, strictly
// descending by creation time with id-descending tie break.
func (s *Service) List(ctx context.Context, accountID string, f Filter) ([]ledger.Transaction, error) {
	all, err := s.ledger.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	results := make([]ledger.Transaction, 0, len(all))
	for _, tx := range all {
		if f.Matches(tx) {
			results = append(results, tx)
		}
	}

	// Backends already order newest first, but the ordering contract belongs
	// to this engine, not to whichever store happens to serve it.
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}

// Summary aggregates an already-filtered sequence of transactions.
type Summary struct {
	Count       int
	CountByType map[ledger.Direction]int
	TotalAmount decimal.Decimal
}

// Aggregate is a pure reduction over the given transactions; it performs no
// storage access.
func Aggregate(txs []ledger.Transaction) Summary {
	summary := Summary{
		CountByType: map[ledger.Direction]int{},
		TotalAmount: decimal.Zero,
	}
	for _, tx := range txs {
		summary.Count++
		summary.CountByType[tx.Direction]++
		summary.TotalAmount = summary.TotalAmount.Add(tx.Amount)
	}
	return summary
}
