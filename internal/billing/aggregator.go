package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/account"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/logger"
	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/metrics"
)

// Aggregator rolls unposted transactions plus tier dues into monthly
// statements. Safe to re-invoke: already-closed periods are skipped and each
// account is its own unit of work.
type Aggregator struct {
	accounts account.Repository
	repo     Repository
}

func NewAggregator(accounts account.Repository, repo Repository) *Aggregator {
	return &Aggregator{accounts: accounts, repo: repo}
}

// RunOnce bills every active account for the month containing billingDate.
// It fails outright only when the accounts cannot be enumerated; per-account
// failures are collected and the run continues.
func (a *Aggregator) RunOnce(ctx context.Context, billingDate time.Time) (*RunResult, error) {
	period := PeriodFor(billingDate)

	accounts, err := a.accounts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate active accounts: %w", err)
	}

	result := &RunResult{Errors: []string{}}

	for _, acc := range accounts {
		stmt, skipped, err := a.repo.CloseAccountPeriod(ctx, acc.ID, period, DuesFor(acc.Tier))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("account %d: %v", acc.ID, err))
			metrics.RecordBillingError()
			logger.Error("billing failed for account", "account_id", acc.ID, "period", period.Format("2006-01"), "error", err)
			continue
		}
		if skipped {
			result.Skipped++
			continue
		}

		result.Processed++
		metrics.RecordStatement()
		logger.Info("statement created",
			"account_id", acc.ID,
			"statement_id", stmt.ID,
			"period", period.Format("2006-01"),
			"total_cents", stmt.TotalAmountCents,
		)
	}

	logger.Info("billing run complete",
		"period", period.Format("2006-01"),
		"processed", result.Processed,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}
