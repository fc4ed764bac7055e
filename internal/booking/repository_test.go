package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func bookingColumns() []string {
	return []string{
		"id", "court_id", "slot_date", "hour", "account_id", "status",
		"payment_status", "amount_cents", "auto_charge_at", "auto_charge_cancelled", "created_at",
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(3, date, 10, 1, int64(8000)).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(42, 3, date, 10, 1, "pending", "pending", int64(8000), nil, false, now))

	b, err := repo.Create(context.Background(), 3, date, 10, 1, 8000)
	require.NoError(t, err)
	require.Equal(t, 42, b.ID)
	require.Equal(t, StatusPending, b.Status)
	require.Equal(t, int64(8000), b.AmountCents)
	require.Nil(t, b.AutoChargeAt)
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(3, date, 10, 1, int64(8000)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_bookings_active_slot"})

	_, err := repo.Create(context.Background(), 3, date, 10, 1, 8000)
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, court_id, slot_date, hour, account_id, status")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(bookingColumns()))

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Confirm(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42, &at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Confirm(context.Background(), 42, &at)
	require.NoError(t, err)

	// already confirmed or declined: zero rows match the status guard
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42, &at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Confirm(context.Background(), 42, &at)
	require.ErrorIs(t, err, ErrNotTransitionable)
}

func TestRepository_Decline(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Decline(context.Background(), 42))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Decline(context.Background(), 42), ErrNotTransitionable)
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), 42))
}

func TestRepository_ListByAccount(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(bookingColumns()).
			AddRow(42, 3, date, 10, 1, "confirmed", "paid", int64(8000), nil, false, now).
			AddRow(41, 2, date, 9, 1, "declined", "pending", int64(6000), nil, false, now))

	bookings, err := repo.ListByAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, StatusConfirmed, bookings[0].Status)
}
