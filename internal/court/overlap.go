package court

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// SlotInterval converts a (date, hour) slot into its one-hour interval.
func SlotInterval(date time.Time, hour int) Interval {
	start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
	return Interval{Start: start, End: start.Add(time.Hour)}
}

// Overlaps reports whether two half-open intervals intersect. Touching
// intervals (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// ConflictError reports a reservation colliding with a requested interval.
type ConflictError struct {
	BookingID int
	CourtID   int
	SlotDate  time.Time
	Hour      int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflict: court %d on %s hour %d is held by booking %d",
		e.CourtID, e.SlotDate.Format(DateLayout), e.Hour, e.BookingID)
}

// Checker is the single overlap checker used by create, reschedule and
// availability paths. Reschedule passes its own booking id as excludeID so the
// prior interval does not collide with itself; create passes 0.
type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// Conflict returns a ConflictError for the first existing reservation whose
// interval intersects iv, or nil when the interval is free.
func (c *Checker) Conflict(iv Interval, existing []Reservation, excludeID int) *ConflictError {
	for _, r := range existing {
		if excludeID != 0 && r.BookingID == excludeID {
			continue
		}
		if Overlaps(iv, r.Interval()) {
			return &ConflictError{
				BookingID: r.BookingID,
				CourtID:   r.CourtID,
				SlotDate:  r.SlotDate,
				Hour:      r.Hour,
			}
		}
	}
	return nil
}
