package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/court"
)

// BookingSummary is the slice of a booking the messages need.
type BookingSummary struct {
	BookingID int
	CourtName string
	Date      time.Time
	Hour      int
	Member    string
}

func hourRange(hour int) string {
	return fmt.Sprintf("%02d:00-%02d:00", hour, hour+1)
}

func (b BookingSummary) line() string {
	return fmt.Sprintf("%s on %s, %s", b.CourtName, b.Date.Format("Mon Jan 2, 2006"), hourRange(b.Hour))
}

// SendBookingRequested alerts the front desk about a new pending booking,
// with one-click confirm/decline links.
func (s *Service) SendBookingRequested(ctx context.Context, operatorEmail string, b BookingSummary, confirmURL, declineURL string) error {
	subject := fmt.Sprintf("Booking request #%d - %s", b.BookingID, b.line())
	body := fmt.Sprintf(`New court reservation request:

Member: %s
Court:  %s

Confirm: %s
Decline: %s`, b.Member, b.line(), confirmURL, declineURL)

	return s.Send(ctx, operatorEmail, subject, body, "booking_requested")
}

func (s *Service) SendBookingConfirmed(ctx context.Context, to string, b BookingSummary) error {
	subject := "Reservation confirmed - " + b.line()
	body := fmt.Sprintf(`Hi %s,

Your court reservation is confirmed:

%s

See you on court!

- DiFazio Tennis`, b.Member, b.line())

	return s.Send(ctx, to, subject, body, "booking_confirmed")
}

// SendBookingDeclined tells the member their slot was declined and lists up
// to a handful of open alternatives on the same court.
func (s *Service) SendBookingDeclined(ctx context.Context, to string, b BookingSummary, alternatives []court.TimeSlot) error {
	subject := "Reservation declined - " + b.line()

	var sb strings.Builder
	fmt.Fprintf(&sb, `Hi %s,

Unfortunately we could not confirm your reservation:

%s
`, b.Member, b.line())

	if len(alternatives) > 0 {
		sb.WriteString("\nThese nearby times are open on the same court:\n")
		for _, alt := range alternatives {
			fmt.Fprintf(&sb, "  - %s, %s\n", alt.SlotDate.Format("Mon Jan 2, 2006"), hourRange(alt.Hour))
		}
	}

	sb.WriteString("\n- DiFazio Tennis")

	return s.Send(ctx, to, subject, sb.String(), "booking_declined")
}

func (s *Service) SendPaymentReceipt(ctx context.Context, to string, b BookingSummary, amountCents int64, chargeID string) error {
	subject := fmt.Sprintf("Receipt - %s", b.line())
	body := fmt.Sprintf(`Hi %s,

Your card on file was charged $%d.%02d for:

%s

Reference: %s

- DiFazio Tennis`, b.Member, amountCents/100, amountCents%100, b.line(), chargeID)

	return s.Send(ctx, to, subject, body, "payment_receipt")
}

// SendOperatorAlert flags a batch-item failure that needs manual attention.
func (s *Service) SendOperatorAlert(ctx context.Context, operatorEmail, subject, detail string) error {
	return s.Send(ctx, operatorEmail, "[headstrap] "+subject, detail, "operator_alert")
}
