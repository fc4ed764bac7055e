package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound = errors.New("booking not found")

	// ErrSlotTaken surfaces the unique index on active (court, date, hour)
	// claims. It is the data-layer loser of a reservation race.
	ErrSlotTaken = errors.New("slot already claimed by an active booking")

	ErrNotTransitionable = errors.New("booking not in a transitionable state")
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, courtID int, date time.Time, hour, accountID int, amountCents int64) (*Booking, error) {
	query := `
		INSERT INTO bookings (court_id, slot_date, hour, account_id, status, payment_status, amount_cents)
		VALUES ($1, $2, $3, $4, 'pending', 'pending', $5)
		RETURNING id, court_id, slot_date, hour, account_id, status, payment_status,
		          amount_cents, auto_charge_at, auto_charge_cancelled, created_at
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, courtID, date, hour, accountID, amountCents)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `
		SELECT id, court_id, slot_date, hour, account_id, status, payment_status,
		       amount_cents, auto_charge_at, auto_charge_cancelled, created_at
		FROM bookings
		WHERE id = $1
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetActiveBySlot(ctx context.Context, courtID int, date time.Time, hour int) (*Booking, error) {
	query := `
		SELECT id, court_id, slot_date, hour, account_id, status, payment_status,
		       amount_cents, auto_charge_at, auto_charge_cancelled, created_at
		FROM bookings
		WHERE court_id = $1 AND slot_date = $2 AND hour = $3
		  AND status IN ('pending', 'confirmed')
	`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, courtID, date, hour)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// Confirm moves pending to confirmed. The status guard in the WHERE clause
// keeps a raced confirm/decline pair from both winning.
func (r *repository) Confirm(ctx context.Context, id int, autoChargeAt *time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'confirmed', auto_charge_at = $2
		WHERE id = $1 AND status = 'pending'
	`, id, autoChargeAt)
	if err != nil {
		return err
	}

	return oneRowOr(result, ErrNotTransitionable)
}

func (r *repository) Decline(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'declined'
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return err
	}

	return oneRowOr(result, ErrNotTransitionable)
}

// Cancel also flips auto_charge_cancelled so a confirmed-then-cancelled
// booking can never be captured by a later auto-charge run.
func (r *repository) Cancel(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled', auto_charge_cancelled = TRUE
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`, id)
	if err != nil {
		return err
	}

	return oneRowOr(result, ErrNotTransitionable)
}

func (r *repository) ListByAccount(ctx context.Context, accountID int) ([]Booking, error) {
	query := `
		SELECT id, court_id, slot_date, hour, account_id, status, payment_status,
		       amount_cents, auto_charge_at, auto_charge_cancelled, created_at
		FROM bookings
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, accountID); err != nil {
		return nil, err
	}

	return bookings, nil
}

func oneRowOr(result sql.Result, sentinel error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sentinel
	}
	return nil
}
