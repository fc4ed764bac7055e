package ledger

import "time"

// Departments tag where a charge originated.
const (
	DeptCourts   = "courts"
	DeptProShop  = "pro_shop"
	DeptDining   = "dining"
	DeptDues     = "dues"
)

// Transaction is one recorded charge against an account. It starts unposted
// and is folded into exactly one monthly statement, at which point is_posted
// flips true and never flips back.
type Transaction struct {
	ID          int       `db:"id" json:"id"`
	AccountID   int       `db:"account_id" json:"account_id"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Department  string    `db:"department" json:"department"`
	Description string    `db:"description" json:"description"`
	IsPosted    bool      `db:"is_posted" json:"is_posted"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
