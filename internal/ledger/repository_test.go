package ledger

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

func txnColumns() []string {
	return []string{"id", "account_id", "amount_cents", "department", "description", "is_posted", "created_at"}
}

func TestRepository_Create(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions")).
		WithArgs(1, int64(4000), DeptProShop, "racket restring").
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(101, 1, int64(4000), "pro_shop", "racket restring", false, now))

	txn, err := repo.Create(context.Background(), 1, 4000, DeptProShop, "racket restring")
	require.NoError(t, err)
	require.Equal(t, 101, txn.ID)
	require.False(t, txn.IsPosted)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(txnColumns()))

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestRepository_ListUnpostedByAccount(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("NOT is_posted")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(txnColumns()).
			AddRow(101, 1, int64(4000), "pro_shop", "racket restring", false, now).
			AddRow(102, 1, int64(1500), "dining", "lunch", false, now))

	txns, err := repo.ListUnpostedByAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	require.Equal(t, int64(4000), txns[0].AmountCents)
}

func TestRepository_ListByAccount_DefaultLimit(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs(1, 50, 0).
		WillReturnRows(sqlmock.NewRows(txnColumns()))

	txns, err := repo.ListByAccount(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	require.Empty(t, txns)
}
