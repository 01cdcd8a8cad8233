package ledger

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

// PostgresStore persists ledger records in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert appends a new transaction record.
func (s *PostgresStore) Insert(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	acctID, err := uuid.Parse(tx.AccountID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO transactions
        (id, account_id, recipient_name, recipient_contact, amount, direction, status, description, created_at)
        VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9)`,
		txID, acctID, tx.RecipientName, tx.RecipientContact, tx.Amount.String(),
		string(tx.Direction), string(tx.Status), tx.Description, tx.CreatedAt.UTC())
	return err
}

// UpdateStatus moves a pending transaction to a terminal status. The WHERE
// clause pins the transition to pending rows so it can apply at most once.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE transactions SET status = $1
        WHERE id = $2 AND status = $3`, string(status), txID, string(StatusPending))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var current string
		err := s.db.QueryRow(ctx, `SELECT status FROM transactions WHERE id = $1`, txID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrStatusFinal
	}
	return nil
}

// ListByAccount returns every transaction owned by the account, newest first.
func (s *PostgresStore) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := s.db.Query(ctx, `SELECT id, account_id, recipient_name, recipient_contact,
        amount::text, direction, status, description, created_at
        FROM transactions WHERE account_id = $1
        ORDER BY created_at DESC, id DESC`, acctID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Transaction
	for rows.Next() {
		var (
			idVal     uuid.UUID
			acctVal   uuid.UUID
			amountStr string
			direction string
			status    string
			createdAt time.Time
			tx        Transaction
		)
		if err := rows.Scan(&idVal, &acctVal, &tx.RecipientName, &tx.RecipientContact,
			&amountStr, &direction, &status, &tx.Description, &createdAt); err != nil {
			return nil, err
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored amount: %w", err)
		}
		tx.ID = idVal.String()
		tx.AccountID = acctVal.String()
		tx.Amount = amount
		tx.Direction = Direction(direction)
		tx.Status = Status(status)
		tx.CreatedAt = createdAt.UTC()
		results = append(results, tx)
	}
	return results, rows.Err()
}
