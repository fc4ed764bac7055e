package booking

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, courtID int, date time.Time, hour, accountID int, amountCents int64) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	GetActiveBySlot(ctx context.Context, courtID int, date time.Time, hour int) (*Booking, error)
	Confirm(ctx context.Context, id int, autoChargeAt *time.Time) error
	Decline(ctx context.Context, id int) error
	Cancel(ctx context.Context, id int) error
	ListByAccount(ctx context.Context, accountID int) ([]Booking, error)
}
