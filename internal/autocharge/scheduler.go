// Package autocharge captures stored-card payments for confirmed bookings
// after their court time has passed. The model is at-least-once cron plus
// flag-based idempotence: runs may overlap, and the selection predicate
// (unpaid, uncancelled, confirmed) makes the overlap self-correcting. At most
// one duplicate capture attempt is possible in the same instant, which the
// deterministic idempotency key absorbs at the gateway.
package autocharge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/account"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/booking"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/logger"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/metrics"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/notify"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/payment"
)

// chargeNamespace seeds UUIDv5 derivation so the idempotency key for a
// booking is the same across every run and process.
var chargeNamespace = uuid.MustParse("c2a5a2e6-8f1d-4af0-9a57-3bfe1f5f8d01")

// Result is the per-booking outcome of one run.
type Result struct {
	BookingID int    `json:"booking_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// RunResult summarizes one auto-charge run.
type RunResult struct {
	Processed int      `json:"processed"`
	Results   []Result `json:"results"`
}

// Notifier is the slice of the notification service the scheduler uses.
type Notifier interface {
	SendPaymentReceipt(ctx context.Context, to string, b notify.BookingSummary, amountCents int64, chargeID string) error
	SendOperatorAlert(ctx context.Context, operatorEmail, subject, detail string) error
}

type Scheduler struct {
	repo          Repository
	accounts      account.Repository
	provider      payment.Provider
	notifier      Notifier
	operatorEmail string
	timeout       time.Duration
}

func NewScheduler(
	repo Repository,
	accounts account.Repository,
	provider payment.Provider,
	notifier Notifier,
	operatorEmail string,
	timeout time.Duration,
) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		repo:          repo,
		accounts:      accounts,
		provider:      provider,
		notifier:      notifier,
		operatorEmail: operatorEmail,
		timeout:       timeout,
	}
}

// IdempotencyKey derives the stable per-booking capture key.
func IdempotencyKey(bookingID int) string {
	return uuid.NewSHA1(chargeNamespace, []byte(strconv.Itoa(bookingID))).String()
}

// RunOnce attempts one capture per due booking. A declined card is a
// recoverable per-item failure; it never aborts the rest of the batch. The
// run fails outright only when the due bookings cannot be enumerated.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (*RunResult, error) {
	due, err := s.repo.DueBookings(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("enumerate due bookings: %w", err)
	}

	result := &RunResult{Results: []Result{}}

	for _, b := range due {
		// A cancellation that landed after selection is honored here,
		// immediately before the attempt. It cannot interrupt an in-flight
		// capture, only prevent the next one.
		cancelled, err := s.repo.IsCancelled(ctx, b.ID)
		if err != nil {
			result.Processed++
			result.Results = append(result.Results, failure(b.ID, err))
			continue
		}
		if cancelled {
			logger.Info("auto-charge skipped, cancelled mid-window", "booking_id", b.ID)
			continue
		}

		result.Processed++
		result.Results = append(result.Results, s.chargeOne(ctx, b))
	}

	logger.Info("auto-charge run complete", "due", len(due), "processed", result.Processed)
	return result, nil
}

func (s *Scheduler) chargeOne(ctx context.Context, b booking.Booking) Result {
	acc, err := s.accounts.FindByID(ctx, b.AccountID)
	if err != nil {
		metrics.RecordChargeAttempt("error")
		return failure(b.ID, err)
	}

	if !acc.HasPaymentMethod() {
		metrics.RecordChargeAttempt("no_payment_method")
		s.alertOperator(ctx, b, "no default payment method on file")
		return failure(b.ID, errors.New("no default payment method"))
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	charge, err := s.provider.CreateAndConfirmCharge(
		cctx,
		*acc.CustomerRef,
		*acc.PaymentMethodRef,
		b.AmountCents,
		IdempotencyKey(b.ID),
	)
	if err != nil {
		if payment.IsDeclined(err) {
			metrics.RecordChargeAttempt("declined")
			if markErr := s.repo.MarkFailed(ctx, b.ID); markErr != nil {
				logger.Error("failed to mark booking payment failed", "booking_id", b.ID, "error", markErr)
			}
			s.alertOperator(ctx, b, "card declined: "+err.Error())
			return failure(b.ID, err)
		}

		// Timeouts and gateway faults leave payment_status pending so the
		// next run retries; no in-process retry.
		metrics.RecordChargeAttempt("error")
		logger.Error("charge attempt failed", "booking_id", b.ID, "error", err)
		return failure(b.ID, err)
	}

	if err := s.repo.MarkPaid(ctx, b.ID); err != nil {
		// The money moved but the flag did not; the idempotency key keeps a
		// re-capture on the next run from double-billing.
		metrics.RecordChargeAttempt("error")
		logger.Error("charge captured but booking not marked paid", "booking_id", b.ID, "charge_id", charge.ID, "error", err)
		return failure(b.ID, err)
	}

	metrics.RecordChargeAttempt("success")
	logger.Info("auto-charge captured", "booking_id", b.ID, "charge_id", charge.ID, "amount_cents", b.AmountCents)

	summary := notify.BookingSummary{
		BookingID: b.ID,
		CourtName: fmt.Sprintf("court %d", b.CourtID),
		Date:      b.SlotDate,
		Hour:      b.Hour,
		Member:    acc.Name,
	}
	if err := s.notifier.SendPaymentReceipt(ctx, acc.Email, summary, b.AmountCents, charge.ID); err != nil {
		logger.Error("failed to queue payment receipt", "booking_id", b.ID, "error", err)
	}

	return Result{BookingID: b.ID, Success: true}
}

// CancelAutoCharge flips the cancellation flag. It is checked before every
// attempt, so a cancellation arriving mid-window takes effect on the next run.
func (s *Scheduler) CancelAutoCharge(ctx context.Context, bookingID int) error {
	return s.repo.CancelAutoCharge(ctx, bookingID)
}

func (s *Scheduler) alertOperator(ctx context.Context, b booking.Booking, detail string) {
	subject := fmt.Sprintf("auto-charge failed for booking %d", b.ID)
	body := fmt.Sprintf("Booking %d (account %d, $%d.%02d) could not be charged: %s",
		b.ID, b.AccountID, b.AmountCents/100, b.AmountCents%100, detail)
	if err := s.notifier.SendOperatorAlert(ctx, s.operatorEmail, subject, body); err != nil {
		logger.Error("failed to queue operator alert", "booking_id", b.ID, "error", err)
	}
}

func failure(bookingID int, err error) Result {
	return Result{BookingID: bookingID, Success: false, Error: err.Error()}
}
