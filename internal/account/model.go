package account

import "time"

type Tier string

const (
	TierMember   Tier = "member"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

type Account struct {
	ID               int       `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	Tier             Tier      `db:"tier" json:"tier"`
	CustomerRef      *string   `db:"customer_ref" json:"customer_ref,omitempty"`
	PaymentMethodRef *string   `db:"payment_method_ref" json:"payment_method_ref,omitempty"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// HasPaymentMethod reports whether a stored card can be charged without
// further input from the member.
func (a *Account) HasPaymentMethod() bool {
	return a.CustomerRef != nil && *a.CustomerRef != "" &&
		a.PaymentMethodRef != nil && *a.PaymentMethodRef != ""
}
