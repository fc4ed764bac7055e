package court

import (
	"context"
	"time"
)

type Repository interface {
	CreateCourt(ctx context.Context, name, surface string, hourlyRateCents int64) (*Court, error)
	GetCourtByID(ctx context.Context, id int) (*Court, error)
	ListCourts(ctx context.Context) ([]Court, error)
	CreateTimeSlot(ctx context.Context, courtID int, date time.Time, hour int) (*TimeSlot, error)
	GetTimeSlot(ctx context.Context, courtID int, date time.Time, hour int) (*TimeSlot, error)
	ListTimeSlots(ctx context.Context, courtID int, from time.Time) ([]TimeSlot, error)
	IsAvailable(ctx context.Context, courtID int, date time.Time, hour int) (bool, error)
	ActiveReservations(ctx context.Context, courtID int, date time.Time) ([]Reservation, error)
	AlternativeSlots(ctx context.Context, courtID int, date time.Time, hour, limit int) ([]TimeSlot, error)
}
