package autocharge

import (
	"context"
	"time"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/booking"
)

type Repository interface {
	// DueBookings selects confirmed, unpaid, uncancelled bookings whose
	// charge time has arrived and whose account has a card on file.
	DueBookings(ctx context.Context, now time.Time) ([]booking.Booking, error)
	IsCancelled(ctx context.Context, bookingID int) (bool, error)
	MarkPaid(ctx context.Context, bookingID int) error
	MarkFailed(ctx context.Context, bookingID int) error
	CancelAutoCharge(ctx context.Context, bookingID int) error
}
