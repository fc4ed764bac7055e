package payment

import (
	"context"
	"errors"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

const currency = "usd"

// OmiseProvider charges stored cards through Omise. The idempotency key rides
// in the charge metadata so gateway-side reconciliation can spot duplicates.
type OmiseProvider struct {
	client *omise.Client
}

func NewOmiseProvider(publicKey, secretKey string, timeout time.Duration) (*OmiseProvider, error) {
	if secretKey == "" {
		return nil, errors.New("omise secret key required")
	}

	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, err
	}
	client.Client.Timeout = timeout

	return &OmiseProvider{client: client}, nil
}

func (p *OmiseProvider) CreateAndConfirmCharge(ctx context.Context, customerRef, paymentMethodRef string, amountCents int64, idempotencyKey string) (*Charge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if customerRef == "" || paymentMethodRef == "" {
		return nil, errors.New("customer and card refs required")
	}
	if amountCents <= 0 {
		return nil, errors.New("charge amount must be positive")
	}

	ch := &omise.Charge{}
	op := &operations.CreateCharge{
		Amount:   amountCents,
		Currency: currency,
		Customer: customerRef,
		Card:     paymentMethodRef,
		Metadata: map[string]interface{}{"idempotency_key": idempotencyKey},
	}

	if err := p.client.Do(ch, op); err != nil {
		return nil, err
	}

	switch string(ch.Status) {
	case "successful":
		return &Charge{ID: ch.ID, Status: string(ch.Status)}, nil
	case "failed":
		declined := &DeclinedError{}
		if ch.FailureCode != nil {
			declined.Code = *ch.FailureCode
		}
		if ch.FailureMessage != nil {
			declined.Message = *ch.FailureMessage
		}
		return nil, declined
	default:
		// pending / awaiting_authorize never resolves for stored-card
		// captures; treat as a failed attempt for this run.
		return nil, errors.New("charge not confirmed: status " + string(ch.Status))
	}
}
