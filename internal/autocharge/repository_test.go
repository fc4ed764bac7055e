package autocharge

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/difaziotennis-rgb/HeadStrap-sub002/internal/booking"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func TestRepository_DueBookings(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	chargeAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cols := []string{
		"id", "court_id", "slot_date", "hour", "account_id", "status",
		"payment_status", "amount_cents", "auto_charge_at", "auto_charge_cancelled", "created_at",
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WithArgs(now).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(42, 3, date, 10, 1, "confirmed", "pending", int64(8000), chargeAt, false, date))

	due, err := repo.DueBookings(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, 42, due[0].ID)
	require.Equal(t, booking.StatusConfirmed, due[0].Status)
}

func TestRepository_IsCancelled(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT auto_charge_cancelled FROM bookings")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"auto_charge_cancelled"}).AddRow(true))

	cancelled, err := repo.IsCancelled(context.Background(), 42)
	require.NoError(t, err)
	require.True(t, cancelled)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT auto_charge_cancelled FROM bookings")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"auto_charge_cancelled"}))

	_, err = repo.IsCancelled(context.Background(), 99)
	require.ErrorIs(t, err, booking.ErrBookingNotFound)
}

func TestRepository_MarkPaidAndFailed(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET payment_status")).
		WithArgs(42, booking.PaymentPaid).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkPaid(context.Background(), 42))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET payment_status")).
		WithArgs(42, booking.PaymentFailed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkFailed(context.Background(), 42))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET payment_status")).
		WithArgs(99, booking.PaymentPaid).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.MarkPaid(context.Background(), 99), booking.ErrBookingNotFound)
}

func TestRepository_CancelAutoCharge(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET auto_charge_cancelled = TRUE")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.CancelAutoCharge(context.Background(), 42))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET auto_charge_cancelled = TRUE")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.CancelAutoCharge(context.Background(), 99), booking.ErrBookingNotFound)
}
