package billing

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/ledger"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func txnColumns() []string {
	return []string{"id", "account_id", "amount_cents", "department", "description", "is_posted", "created_at"}
}

func stmtColumns() []string {
	return []string{"id", "account_id", "billing_period", "total_amount_cents", "is_paid", "created_at"}
}

func TestRepository_CloseAccountPeriod(t *testing.T) {
	period := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	t.Run("creates statement and posts transactions atomically", func(t *testing.T) {
		repo, mock, close := setupMock(t)
		defer close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs(1, period).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(txnColumns()).
				AddRow(101, 1, int64(4000), "pro_shop", "racket restring", false, now).
				AddRow(102, 1, int64(1500), "dining", "lunch", false, now))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO statements")).
			WithArgs(1, period, int64(30500)).
			WillReturnRows(sqlmock.NewRows(stmtColumns()).
				AddRow(10, 1, period, int64(30500), false, now))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE transactions SET is_posted = TRUE WHERE id IN")).
			WithArgs(101, 102).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
			WithArgs(1, int64(25000), ledger.DeptDues, "monthly dues 2024-06").
			WillReturnResult(sqlmock.NewResult(103, 1))
		mock.ExpectCommit()

		stmt, skipped, err := repo.CloseAccountPeriod(context.Background(), 1, period, 25000)
		require.NoError(t, err)
		require.False(t, skipped)
		require.Equal(t, int64(30500), stmt.TotalAmountCents)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already closed period is skipped", func(t *testing.T) {
		repo, mock, close := setupMock(t)
		defer close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs(1, period).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		stmt, skipped, err := repo.CloseAccountPeriod(context.Background(), 1, period, 25000)
		require.NoError(t, err)
		require.True(t, skipped)
		require.Nil(t, stmt)
	})

	t.Run("nothing unposted and no dues skips without a statement", func(t *testing.T) {
		repo, mock, close := setupMock(t)
		defer close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs(2, period).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
			WithArgs(2).
			WillReturnRows(sqlmock.NewRows(txnColumns()))
		mock.ExpectRollback()

		stmt, skipped, err := repo.CloseAccountPeriod(context.Background(), 2, period, 0)
		require.NoError(t, err)
		require.True(t, skipped)
		require.Nil(t, stmt)
	})

	t.Run("dues only still produces a statement", func(t *testing.T) {
		repo, mock, close := setupMock(t)
		defer close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs(3, period).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(txnColumns()))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO statements")).
			WithArgs(3, period, int64(7500)).
			WillReturnRows(sqlmock.NewRows(stmtColumns()).
				AddRow(11, 3, period, int64(7500), false, now))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
			WithArgs(3, int64(7500), ledger.DeptDues, "monthly dues 2024-06").
			WillReturnResult(sqlmock.NewResult(104, 1))
		mock.ExpectCommit()

		stmt, skipped, err := repo.CloseAccountPeriod(context.Background(), 3, period, 7500)
		require.NoError(t, err)
		require.False(t, skipped)
		require.Equal(t, int64(7500), stmt.TotalAmountCents)
	})
}

func TestRepository_GetStatement(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	period := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM statements")).
		WithArgs(1, period).
		WillReturnRows(sqlmock.NewRows(stmtColumns()))

	_, err := repo.GetStatement(context.Background(), 1, period)
	require.ErrorIs(t, err, ErrStatementNotFound)
}

func TestRepository_MarkStatementPaid(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE statements SET is_paid = TRUE")).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkStatementPaid(context.Background(), 10))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE statements SET is_paid = TRUE")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.MarkStatementPaid(context.Background(), 99), ErrStatementNotFound)
}
