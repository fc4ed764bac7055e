package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, accountID int, amountCents int64, department, description string) (*Transaction, error)
	GetByID(ctx context.Context, id int) (*Transaction, error)
	ListByAccount(ctx context.Context, accountID int, limit, offset int) ([]Transaction, error)
	ListUnpostedByAccount(ctx context.Context, accountID int) ([]Transaction, error)
}
