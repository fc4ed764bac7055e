package account

import "context"

type Repository interface {
	Create(ctx context.Context, name, email string, tier Tier) (*Account, error)
	FindByID(ctx context.Context, id int) (*Account, error)
	ListActive(ctx context.Context) ([]Account, error)
	SetPaymentMethod(ctx context.Context, id int, customerRef, paymentMethodRef string) error
}
