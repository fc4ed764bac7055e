package account

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

func accountColumns() []string {
	return []string{"id", "name", "email", "tier", "customer_ref", "payment_method_ref", "active", "created_at"}
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs("Pat Member", "pat@example.com", TierGold).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(1, "Pat Member", "pat@example.com", "gold", nil, nil, true, now))

	a, err := repo.Create(context.Background(), "Pat Member", "pat@example.com", TierGold)
	require.NoError(t, err)
	require.Equal(t, 1, a.ID)
	require.False(t, a.HasPaymentMethod())

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(1, "Pat Member", "pat@example.com", "gold", "cust_123", "card_456", true, now))

	got, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, TierGold, got.Tier)
	require.True(t, got.HasPaymentMethod())

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(accountColumns()))

	_, err = repo.FindByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestRepository_ListActive(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE active")).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(1, "Pat", "pat@example.com", "gold", nil, nil, true, now).
			AddRow(2, "Sam", "sam@example.com", "member", nil, nil, true, now))

	accounts, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}

func TestRepository_SetPaymentMethod(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(1, "cust_123", "card_456").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetPaymentMethod(context.Background(), 1, "cust_123", "card_456"))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(99, "cust_123", "card_456").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.SetPaymentMethod(context.Background(), 99, "cust_123", "card_456"), ErrAccountNotFound)
}
