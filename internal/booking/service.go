package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/account"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/court"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/ledger"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/logger"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/metrics"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/notify"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/token"
)

var (
	ErrSlotUnavailable = errors.New("time slot is not open for booking")
	ErrAlreadyFinal    = errors.New("booking already reached a terminal state")
)

// Notifier is the slice of the notification service the workflow uses.
type Notifier interface {
	SendBookingRequested(ctx context.Context, operatorEmail string, b notify.BookingSummary, confirmURL, declineURL string) error
	SendBookingConfirmed(ctx context.Context, to string, b notify.BookingSummary) error
	SendBookingDeclined(ctx context.Context, to string, b notify.BookingSummary, alternatives []court.TimeSlot) error
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	Confirm(ctx context.Context, tokenString string) (*Booking, error)
	Decline(ctx context.Context, tokenString string) (*DeclineResult, error)
	Cancel(ctx context.Context, bookingID int) error
	GetByID(ctx context.Context, bookingID int) (*Booking, error)
	ListByAccount(ctx context.Context, accountID int) ([]Booking, error)
}

// Options tune workflow behavior from config.
type Options struct {
	OperatorEmail string
	ActionBaseURL string
	ChargeGrace   time.Duration
	Alternatives  int
}

type service struct {
	repo     Repository
	courts   court.Repository
	accounts account.Repository
	ledger   ledger.Repository
	codec    *token.Codec
	checker  *court.Checker
	notifier Notifier
	opts     Options
}

func NewService(
	repo Repository,
	courts court.Repository,
	accounts account.Repository,
	ledgerRepo ledger.Repository,
	codec *token.Codec,
	notifier Notifier,
	opts Options,
) Service {
	if opts.Alternatives <= 0 {
		opts.Alternatives = 3
	}
	return &service{
		repo:     repo,
		courts:   courts,
		accounts: accounts,
		ledger:   ledgerRepo,
		codec:    codec,
		checker:  court.NewChecker(),
		notifier: notifier,
		opts:     opts,
	}
}

// Create reserves the slot optimistically: the booking is inserted PENDING so
// no second request can claim the same slot while the front desk decides. The
// amount is priced from the court's hourly rate and never recomputed.
func (s *service) Create(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	date, err := time.Parse(court.DateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	acc, err := s.accounts.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	c, err := s.courts.GetCourtByID(ctx, req.CourtID)
	if err != nil {
		return nil, err
	}

	slot, err := s.courts.GetTimeSlot(ctx, req.CourtID, date, req.Hour)
	if err != nil {
		return nil, err
	}
	if !slot.Available {
		return nil, ErrSlotUnavailable
	}

	// Advisory overlap check for a precise conflict payload; the unique
	// index below is the authoritative guard.
	reservations, err := s.courts.ActiveReservations(ctx, req.CourtID, date)
	if err != nil {
		return nil, err
	}
	if conflict := s.checker.Conflict(court.SlotInterval(date, req.Hour), reservations, 0); conflict != nil {
		metrics.RecordSlotConflict()
		return nil, conflict
	}

	b, err := s.repo.Create(ctx, req.CourtID, date, req.Hour, req.AccountID, c.HourlyRateCents)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.RecordSlotConflict()
			return nil, s.conflictFor(ctx, req.CourtID, date, req.Hour)
		}
		return nil, err
	}

	metrics.RecordBooking(string(StatusPending))

	tok, err := s.codec.Encode(token.Projection{
		BookingID: b.ID,
		CourtID:   b.CourtID,
		Date:      b.SlotDate.Format(court.DateLayout),
		Hour:      b.Hour,
		Contact:   acc.Email,
	})
	if err != nil {
		// The reservation stands; the front desk can still act from the
		// admin view without the one-click links.
		logger.Error("failed to encode action token", "booking_id", b.ID, "error", err)
		return b, nil
	}

	summary := s.summary(b, c.Name, acc.Name)
	confirmURL := s.opts.ActionBaseURL + "/bookings/confirm?token=" + tok
	declineURL := s.opts.ActionBaseURL + "/bookings/decline?token=" + tok
	if err := s.notifier.SendBookingRequested(ctx, s.opts.OperatorEmail, summary, confirmURL, declineURL); err != nil {
		logger.Error("failed to queue booking-requested notification", "booking_id", b.ID, "error", err)
	}

	return b, nil
}

// conflictFor rebuilds the colliding interval after losing the insert race.
func (s *service) conflictFor(ctx context.Context, courtID int, date time.Time, hour int) error {
	holder, err := s.repo.GetActiveBySlot(ctx, courtID, date, hour)
	if err != nil {
		return &court.ConflictError{CourtID: courtID, SlotDate: date, Hour: hour}
	}
	return &court.ConflictError{
		BookingID: holder.ID,
		CourtID:   courtID,
		SlotDate:  date,
		Hour:      hour,
	}
}

// Confirm is idempotent: a second confirm of the same booking returns success
// without touching state or re-sending notifications, so an email client
// prefetching the link cannot double-fire the action.
func (s *service) Confirm(ctx context.Context, tokenString string) (*Booking, error) {
	p, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case StatusConfirmed:
		return b, nil
	case StatusDeclined, StatusCancelled:
		return nil, ErrAlreadyFinal
	}

	acc, err := s.accounts.FindByID(ctx, b.AccountID)
	if err != nil {
		return nil, err
	}

	// Card on file: schedule a deferred capture for after the court time
	// plus a grace window. House account: the charge goes on the monthly
	// statement instead.
	var autoChargeAt *time.Time
	if acc.HasPaymentMethod() {
		at := b.Interval().End.Add(s.opts.ChargeGrace)
		autoChargeAt = &at
	}

	if err := s.repo.Confirm(ctx, b.ID, autoChargeAt); err != nil {
		if errors.Is(err, ErrNotTransitionable) {
			// Raced with another action; re-read for the idempotent answer.
			current, rerr := s.repo.GetByID(ctx, b.ID)
			if rerr == nil && current.Status == StatusConfirmed {
				return current, nil
			}
			return nil, ErrAlreadyFinal
		}
		return nil, err
	}

	if autoChargeAt == nil {
		desc := fmt.Sprintf("court booking #%d", b.ID)
		if _, err := s.ledger.Create(ctx, b.AccountID, b.AmountCents, ledger.DeptCourts, desc); err != nil {
			logger.Error("failed to record booking transaction", "booking_id", b.ID, "error", err)
		}
	}

	b.Status = StatusConfirmed
	b.AutoChargeAt = autoChargeAt
	metrics.RecordBooking(string(StatusConfirmed))

	c, err := s.courts.GetCourtByID(ctx, b.CourtID)
	courtName := fmt.Sprintf("court %d", b.CourtID)
	if err == nil {
		courtName = c.Name
	}
	if err := s.notifier.SendBookingConfirmed(ctx, acc.Email, s.summary(b, courtName, acc.Name)); err != nil {
		logger.Error("failed to queue confirmation notification", "booking_id", b.ID, "error", err)
	}

	return b, nil
}

// Decline releases the slot and offers the member alternative open times on
// the same court. A repeat decline is a no-op.
func (s *service) Decline(ctx context.Context, tokenString string) (*DeclineResult, error) {
	p, err := s.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case StatusDeclined:
		return &DeclineResult{Booking: b, Alternatives: []court.TimeSlot{}}, nil
	case StatusConfirmed, StatusCancelled:
		return nil, ErrAlreadyFinal
	}

	if err := s.repo.Decline(ctx, b.ID); err != nil {
		if errors.Is(err, ErrNotTransitionable) {
			current, rerr := s.repo.GetByID(ctx, b.ID)
			if rerr == nil && current.Status == StatusDeclined {
				return &DeclineResult{Booking: current, Alternatives: []court.TimeSlot{}}, nil
			}
			return nil, ErrAlreadyFinal
		}
		return nil, err
	}

	b.Status = StatusDeclined
	metrics.RecordBooking(string(StatusDeclined))

	alternatives, err := s.courts.AlternativeSlots(ctx, b.CourtID, b.SlotDate, b.Hour, s.opts.Alternatives)
	if err != nil {
		logger.Error("failed to compute alternative slots", "booking_id", b.ID, "error", err)
		alternatives = []court.TimeSlot{}
	}

	acc, err := s.accounts.FindByID(ctx, b.AccountID)
	if err == nil {
		c, cerr := s.courts.GetCourtByID(ctx, b.CourtID)
		courtName := fmt.Sprintf("court %d", b.CourtID)
		if cerr == nil {
			courtName = c.Name
		}
		if err := s.notifier.SendBookingDeclined(ctx, acc.Email, s.summary(b, courtName, acc.Name), alternatives); err != nil {
			logger.Error("failed to queue decline notification", "booking_id", b.ID, "error", err)
		}
	}

	return &DeclineResult{Booking: b, Alternatives: alternatives}, nil
}

func (s *service) Cancel(ctx context.Context, bookingID int) error {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if b.Status == StatusCancelled {
		return nil
	}
	if b.Status == StatusDeclined {
		return ErrAlreadyFinal
	}

	if err := s.repo.Cancel(ctx, bookingID); err != nil {
		return err
	}

	metrics.RecordBooking(string(StatusCancelled))
	return nil
}

func (s *service) GetByID(ctx context.Context, bookingID int) (*Booking, error) {
	return s.repo.GetByID(ctx, bookingID)
}

func (s *service) ListByAccount(ctx context.Context, accountID int) ([]Booking, error) {
	return s.repo.ListByAccount(ctx, accountID)
}

func (s *service) summary(b *Booking, courtName, memberName string) notify.BookingSummary {
	return notify.BookingSummary{
		BookingID: b.ID,
		CourtName: courtName,
		Date:      b.SlotDate,
		Hour:      b.Hour,
		Member:    memberName,
	}
}
