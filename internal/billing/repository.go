package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/ledger"
)

var ErrStatementNotFound = errors.New("statement not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CloseAccountPeriod is one transaction per account: a crash can never leave
// a statement without its posted transactions or vice versa. FOR UPDATE pins
// the unposted rows so a charge recorded mid-run lands in the next period.
func (r *repository) CloseAccountPeriod(ctx context.Context, accountID int, period time.Time, duesCents int64) (*Statement, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var alreadyClosed bool
	err = tx.GetContext(ctx, &alreadyClosed, `
		SELECT EXISTS(
			SELECT 1 FROM statements
			WHERE account_id = $1 AND billing_period = $2
		)
	`, accountID, period)
	if err != nil {
		return nil, false, err
	}
	if alreadyClosed {
		return nil, true, nil
	}

	var unposted []ledger.Transaction
	err = tx.SelectContext(ctx, &unposted, `
		SELECT id, account_id, amount_cents, department, description, is_posted, created_at
		FROM transactions
		WHERE account_id = $1 AND NOT is_posted
		ORDER BY id
		FOR UPDATE
	`, accountID)
	if err != nil {
		return nil, false, err
	}

	var transactionTotal int64
	ids := make([]int, 0, len(unposted))
	for _, t := range unposted {
		transactionTotal += t.AmountCents
		ids = append(ids, t.ID)
	}

	if transactionTotal == 0 && duesCents == 0 {
		return nil, true, nil
	}

	var stmt Statement
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO statements (account_id, billing_period, total_amount_cents)
		VALUES ($1, $2, $3)
		RETURNING id, account_id, billing_period, total_amount_cents, is_paid, created_at
	`, accountID, period, transactionTotal+duesCents).StructScan(&stmt)
	if err != nil {
		return nil, false, err
	}

	if len(ids) > 0 {
		query, args, err := sqlx.In(`UPDATE transactions SET is_posted = TRUE WHERE id IN (?)`, ids)
		if err != nil {
			return nil, false, err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return nil, false, err
		}
	}

	if duesCents > 0 {
		// Dues are folded into the total directly, so the transaction is
		// born posted and can never be swept into a later statement.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (account_id, amount_cents, department, description, is_posted)
			VALUES ($1, $2, $3, $4, TRUE)
		`, accountID, duesCents, ledger.DeptDues, "monthly dues "+period.Format("2006-01"))
		if err != nil {
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &stmt, false, nil
}

func (r *repository) GetStatement(ctx context.Context, accountID int, period time.Time) (*Statement, error) {
	query := `
		SELECT id, account_id, billing_period, total_amount_cents, is_paid, created_at
		FROM statements
		WHERE account_id = $1 AND billing_period = $2
	`

	var stmt Statement
	err := r.db.GetContext(ctx, &stmt, query, accountID, period)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatementNotFound
		}
		return nil, err
	}

	return &stmt, nil
}

func (r *repository) ListStatementsByAccount(ctx context.Context, accountID int) ([]Statement, error) {
	query := `
		SELECT id, account_id, billing_period, total_amount_cents, is_paid, created_at
		FROM statements
		WHERE account_id = $1
		ORDER BY billing_period DESC
	`

	var stmts []Statement
	if err := r.db.SelectContext(ctx, &stmts, query, accountID); err != nil {
		return nil, err
	}

	return stmts, nil
}

func (r *repository) MarkStatementPaid(ctx context.Context, statementID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE statements SET is_paid = TRUE WHERE id = $1
	`, statementID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStatementNotFound
	}

	return nil
}
