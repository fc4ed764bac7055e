package booking

import (
	"time"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/court"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further lifecycle transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusDeclined || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Booking struct {
	ID                  int           `db:"id" json:"id"`
	CourtID             int           `db:"court_id" json:"court_id"`
	SlotDate            time.Time     `db:"slot_date" json:"slot_date"`
	Hour                int           `db:"hour" json:"hour"`
	AccountID           int           `db:"account_id" json:"account_id"`
	Status              Status        `db:"status" json:"status"`
	PaymentStatus       PaymentStatus `db:"payment_status" json:"payment_status"`
	AmountCents         int64         `db:"amount_cents" json:"amount_cents"`
	AutoChargeAt        *time.Time    `db:"auto_charge_at" json:"auto_charge_at,omitempty"`
	AutoChargeCancelled bool          `db:"auto_charge_cancelled" json:"auto_charge_cancelled"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
}

// Interval is the booking's one-hour claim as a half-open time range.
func (b *Booking) Interval() court.Interval {
	return court.SlotInterval(b.SlotDate, b.Hour)
}

type CreateBookingRequest struct {
	AccountID int    `json:"account_id" validate:"required,gt=0"`
	CourtID   int    `json:"court_id" validate:"required,gt=0"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Hour      int    `json:"hour" validate:"gte=0,lte=23"`
}

// DeclineResult pairs the declined booking with alternative open slots on the
// same court for the member's follow-up.
type DeclineResult struct {
	Booking      *Booking         `json:"booking"`
	Alternatives []court.TimeSlot `json:"alternatives"`
}
