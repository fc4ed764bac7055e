package autocharge

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/booking"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// DueBookings is the whole selection predicate in one place. Overlapping runs
// are safe because paid and cancelled bookings fall out of it.
func (r *repository) DueBookings(ctx context.Context, now time.Time) ([]booking.Booking, error) {
	query := `
		SELECT b.id, b.court_id, b.slot_date, b.hour, b.account_id, b.status,
		       b.payment_status, b.amount_cents, b.auto_charge_at,
		       b.auto_charge_cancelled, b.created_at
		FROM bookings b
		JOIN accounts a ON a.id = b.account_id
		WHERE b.status = 'confirmed'
		  AND b.payment_status <> 'paid'
		  AND NOT b.auto_charge_cancelled
		  AND b.auto_charge_at IS NOT NULL
		  AND b.auto_charge_at <= $1
		  AND a.payment_method_ref IS NOT NULL
		ORDER BY b.auto_charge_at
	`

	var bookings []booking.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, now); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) IsCancelled(ctx context.Context, bookingID int) (bool, error) {
	var cancelled bool
	err := r.db.GetContext(ctx, &cancelled, `
		SELECT auto_charge_cancelled FROM bookings WHERE id = $1
	`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, booking.ErrBookingNotFound
		}
		return false, err
	}

	return cancelled, nil
}

func (r *repository) MarkPaid(ctx context.Context, bookingID int) error {
	return r.setPaymentStatus(ctx, bookingID, booking.PaymentPaid)
}

func (r *repository) MarkFailed(ctx context.Context, bookingID int) error {
	return r.setPaymentStatus(ctx, bookingID, booking.PaymentFailed)
}

func (r *repository) setPaymentStatus(ctx context.Context, bookingID int, status booking.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $2 WHERE id = $1
	`, bookingID, status)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

func (r *repository) CancelAutoCharge(ctx context.Context, bookingID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings SET auto_charge_cancelled = TRUE WHERE id = $1
	`, bookingID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}
