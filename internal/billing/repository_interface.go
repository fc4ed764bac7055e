package billing

import (
	"context"
	"time"
)

type Repository interface {
	// CloseAccountPeriod runs the per-account unit of work: fetch unposted
	// transactions, add tier dues, create the statement and mark everything
	// posted in one database transaction. skipped is true when there was
	// nothing to bill or the period was already closed for the account.
	CloseAccountPeriod(ctx context.Context, accountID int, period time.Time, duesCents int64) (stmt *Statement, skipped bool, err error)

	GetStatement(ctx context.Context, accountID int, period time.Time) (*Statement, error)
	ListStatementsByAccount(ctx context.Context, accountID int) ([]Statement, error)
	MarkStatementPaid(ctx context.Context, statementID int) error
}
