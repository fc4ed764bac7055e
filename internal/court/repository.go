package court

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCourtNotFound = errors.New("court not found")
	ErrSlotNotFound  = errors.New("time slot not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCourt(ctx context.Context, name, surface string, hourlyRateCents int64) (*Court, error) {
	query := `
		INSERT INTO courts (name, surface, hourly_rate_cents)
		VALUES ($1, $2, $3)
		RETURNING id, name, surface, hourly_rate_cents, created_at
	`

	var c Court
	if err := r.db.GetContext(ctx, &c, query, name, surface, hourlyRateCents); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetCourtByID(ctx context.Context, id int) (*Court, error) {
	query := `
		SELECT id, name, surface, hourly_rate_cents, created_at
		FROM courts
		WHERE id = $1
	`

	var c Court
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *repository) ListCourts(ctx context.Context) ([]Court, error) {
	query := `
		SELECT id, name, surface, hourly_rate_cents, created_at
		FROM courts
		ORDER BY name
	`

	var courts []Court
	if err := r.db.SelectContext(ctx, &courts, query); err != nil {
		return nil, err
	}

	return courts, nil
}

func (r *repository) CreateTimeSlot(ctx context.Context, courtID int, date time.Time, hour int) (*TimeSlot, error) {
	query := `
		INSERT INTO time_slots (court_id, slot_date, hour, available)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, court_id, slot_date, hour, available, created_at
	`

	var slot TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, courtID, date, hour); err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) GetTimeSlot(ctx context.Context, courtID int, date time.Time, hour int) (*TimeSlot, error) {
	query := `
		SELECT id, court_id, slot_date, hour, available, created_at
		FROM time_slots
		WHERE court_id = $1 AND slot_date = $2 AND hour = $3
	`

	var slot TimeSlot
	err := r.db.GetContext(ctx, &slot, query, courtID, date, hour)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) ListTimeSlots(ctx context.Context, courtID int, from time.Time) ([]TimeSlot, error) {
	query := `
		SELECT id, court_id, slot_date, hour, available, created_at
		FROM time_slots
		WHERE court_id = $1 AND slot_date >= $2
		ORDER BY slot_date, hour
	`

	var slots []TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, courtID, from); err != nil {
		return nil, err
	}

	return slots, nil
}

// IsAvailable reports whether the slot is provisioned, open, and not claimed
// by an active booking.
func (r *repository) IsAvailable(ctx context.Context, courtID int, date time.Time, hour int) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM time_slots ts
			WHERE ts.court_id = $1 AND ts.slot_date = $2 AND ts.hour = $3
			  AND ts.available
			  AND NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.court_id = ts.court_id
				  AND b.slot_date = ts.slot_date
				  AND b.hour = ts.hour
				  AND b.status IN ('pending', 'confirmed')
			  )
		)
	`

	var available bool
	if err := r.db.GetContext(ctx, &available, query, courtID, date, hour); err != nil {
		return false, err
	}

	return available, nil
}

func (r *repository) ActiveReservations(ctx context.Context, courtID int, date time.Time) ([]Reservation, error) {
	query := `
		SELECT b.id AS booking_id, b.court_id, b.slot_date, b.hour
		FROM bookings b
		WHERE b.court_id = $1
		  AND b.slot_date = $2
		  AND b.status IN ('pending', 'confirmed')
		ORDER BY b.hour
	`

	var reservations []Reservation
	if err := r.db.SelectContext(ctx, &reservations, query, courtID, date); err != nil {
		return nil, err
	}

	return reservations, nil
}

// AlternativeSlots returns up to limit open, unclaimed slots on the same court
// from the given date onward, ordered by date then hour. The slot identified
// by (date, hour) itself is excluded.
func (r *repository) AlternativeSlots(ctx context.Context, courtID int, date time.Time, hour, limit int) ([]TimeSlot, error) {
	query := `
		SELECT ts.id, ts.court_id, ts.slot_date, ts.hour, ts.available, ts.created_at
		FROM time_slots ts
		LEFT JOIN bookings b
		  ON b.court_id = ts.court_id
		 AND b.slot_date = ts.slot_date
		 AND b.hour = ts.hour
		 AND b.status IN ('pending', 'confirmed')
		WHERE ts.court_id = $1
		  AND ts.available
		  AND b.id IS NULL
		  AND ts.slot_date >= $2
		  AND NOT (ts.slot_date = $2 AND ts.hour = $3)
		ORDER BY ts.slot_date, ts.hour
		LIMIT $4
	`

	var slots []TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, courtID, date, hour, limit); err != nil {
		return nil, err
	}

	return slots, nil
}
