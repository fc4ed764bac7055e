package payment

import (
	"context"
	"errors"
	"fmt"
)

// Charge is the outcome of a successful capture.
type Charge struct {
	ID     string
	Status string
}

// Provider captures payments against a stored customer and card. The
// idempotency key must be deterministic per logical charge so a retried
// capture cannot bill twice.
type Provider interface {
	CreateAndConfirmCharge(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, idempotencyKey string) (*Charge, error)
}

// DeclinedError is a recoverable per-item failure: the gateway answered and
// said no. Batch callers record it and move on.
type DeclinedError struct {
	Code    string
	Message string
}

func (e *DeclinedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment declined (%s)", e.Code)
	}
	return fmt.Sprintf("payment declined (%s): %s", e.Code, e.Message)
}

// IsDeclined reports whether err is a gateway decline rather than a
// transport or gateway fault.
func IsDeclined(err error) bool {
	var declined *DeclinedError
	return errors.As(err, &declined)
}
