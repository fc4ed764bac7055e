package court

import "time"

// DateLayout is the wire format for slot dates.
const DateLayout = "2006-01-02"

type Court struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Surface         string    `db:"surface" json:"surface"`
	HourlyRateCents int64     `db:"hourly_rate_cents" json:"hourly_rate_cents"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// TimeSlot is one bookable (court, date, hour) unit. Slots are provisioned by
// admins; claims on them live in the bookings table.
type TimeSlot struct {
	ID        int       `db:"id" json:"id"`
	CourtID   int       `db:"court_id" json:"court_id"`
	SlotDate  time.Time `db:"slot_date" json:"slot_date"`
	Hour      int       `db:"hour" json:"hour"`
	Available bool      `db:"available" json:"available"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Reservation is an active (pending or confirmed) claim on a court interval.
type Reservation struct {
	BookingID int       `db:"booking_id"`
	CourtID   int       `db:"court_id"`
	SlotDate  time.Time `db:"slot_date"`
	Hour      int       `db:"hour"`
}

func (r Reservation) Interval() Interval {
	return SlotInterval(r.SlotDate, r.Hour)
}
