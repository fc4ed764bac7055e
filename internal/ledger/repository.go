package ledger

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, accountID int, amountCents int64, department, description string) (*Transaction, error) {
	query := `
		INSERT INTO transactions (account_id, amount_cents, department, description, is_posted)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, account_id, amount_cents, department, description, is_posted, created_at
	`

	var t Transaction
	if err := r.db.GetContext(ctx, &t, query, accountID, amountCents, department, description); err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Transaction, error) {
	query := `
		SELECT id, account_id, amount_cents, department, description, is_posted, created_at
		FROM transactions
		WHERE id = $1
	`

	var t Transaction
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	return &t, nil
}

func (r *repository) ListByAccount(ctx context.Context, accountID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, account_id, amount_cents, department, description, is_posted, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var txs []Transaction
	if err := r.db.SelectContext(ctx, &txs, query, accountID, limit, offset); err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *repository) ListUnpostedByAccount(ctx context.Context, accountID int) ([]Transaction, error) {
	query := `
		SELECT id, account_id, amount_cents, department, description, is_posted, created_at
		FROM transactions
		WHERE account_id = $1 AND NOT is_posted
		ORDER BY created_at
	`

	var txs []Transaction
	if err := r.db.SelectContext(ctx, &txs, query, accountID); err != nil {
		return nil, err
	}

	return txs, nil
}
