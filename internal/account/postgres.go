package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed account store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new account row.
func (s *PostgresStore) Create(ctx context.Context, acct Account) error {
	acctID, err := uuid.Parse(acct.ID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO accounts (id, display_name, balance, created_at, updated_at)
        VALUES ($1, $2, $3::numeric, $4, $5)`,
		acctID, acct.DisplayName, acct.Balance.String(), acct.CreatedAt.UTC(), acct.UpdatedAt.UTC())
	return err
}

// Get fetches a full account record.
func (s *PostgresStore) Get(ctx context.Context, id string) (Account, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT id, display_name, balance::text, created_at, updated_at
        FROM accounts WHERE id = $1`, acctID)

	var (
		idVal      uuid.UUID
		balanceStr string
		createdAt  time.Time
		updatedAt  time.Time
		acct       Account
	)
	if err := row.Scan(&idVal, &acct.DisplayName, &balanceStr, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return Account{}, fmt.Errorf("parse stored balance: %w", err)
	}
	acct.ID = idVal.String()
	acct.Balance = balance
	acct.CreatedAt = createdAt.UTC()
	acct.UpdatedAt = updatedAt.UTC()
	return acct, nil
}

// Balance returns the current balance for the account.
func (s *PostgresStore) Balance(ctx context.Context, id string) (decimal.Decimal, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return decimal.Decimal{}, ErrNotFound
	}
	var balanceStr string
	if err := s.db.QueryRow(ctx, `SELECT balance::text FROM accounts WHERE id = $1`, acctID).Scan(&balanceStr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, ErrNotFound
		}
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(balanceStr)
}

// ConditionalDecrement debits the account only if the balance covers the
// amount. The guard lives in the UPDATE itself so two racing debits can never
// both observe a stale sufficient balance. Returns false when the guard
// rejected the write.
func (s *PostgresStore) ConditionalDecrement(ctx context.Context, id string, amount decimal.Decimal) (bool, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return false, ErrNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE accounts
        SET balance = balance - $1::numeric, updated_at = now()
        WHERE id = $2 AND balance >= $1::numeric`, amount.String(), acctID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// Credit increases the account balance unconditionally.
func (s *PostgresStore) Credit(ctx context.Context, id string, amount decimal.Decimal) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE accounts
        SET balance = balance + $1::numeric, updated_at = now()
        WHERE id = $2`, amount.String(), acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
