package billing

import (
	"time"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/account"
)

// Statement is a billing-period rollup for one account. Immutable after
// creation except for is_paid.
type Statement struct {
	ID               int       `db:"id" json:"id"`
	AccountID        int       `db:"account_id" json:"account_id"`
	BillingPeriod    time.Time `db:"billing_period" json:"billing_period"`
	TotalAmountCents int64     `db:"total_amount_cents" json:"total_amount_cents"`
	IsPaid           bool      `db:"is_paid" json:"is_paid"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// RunResult summarizes one billing run. Errors carry the account id so the
// front desk can remediate by hand.
type RunResult struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

var tierDuesCents = map[account.Tier]int64{
	account.TierMember:   0,
	account.TierSilver:   7500,
	account.TierGold:     15000,
	account.TierPlatinum: 25000,
}

// DuesFor returns the fixed monthly dues for a membership tier. Unknown
// tiers owe nothing.
func DuesFor(tier account.Tier) int64 {
	return tierDuesCents[tier]
}

// PeriodFor normalizes any date to the first day of its containing month.
func PeriodFor(billingDate time.Time) time.Time {
	return time.Date(billingDate.Year(), billingDate.Month(), 1, 0, 0, 0, 0, time.UTC)
}
