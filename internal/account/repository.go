package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrAccountNotFound = errors.New("account not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email string, tier Tier) (*Account, error) {
	query := `
		INSERT INTO accounts (name, email, tier)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, tier, customer_ref, payment_method_ref, active, created_at
	`

	var a Account
	if err := r.db.GetContext(ctx, &a, query, name, email, tier); err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*Account, error) {
	query := `
		SELECT id, name, email, tier, customer_ref, payment_method_ref, active, created_at
		FROM accounts
		WHERE id = $1
	`

	var a Account
	err := r.db.GetContext(ctx, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Account, error) {
	query := `
		SELECT id, name, email, tier, customer_ref, payment_method_ref, active, created_at
		FROM accounts
		WHERE active
		ORDER BY id
	`

	var accounts []Account
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *repository) SetPaymentMethod(ctx context.Context, id int, customerRef, paymentMethodRef string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET customer_ref = $2, payment_method_ref = $3
		WHERE id = $1
	`, id, customerRef, paymentMethodRef)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return nil
}
