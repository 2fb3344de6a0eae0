package ledger

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertEntriesTx(t *testing.T) {
	t.Run("rejects empty batch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)

		repo := NewRepository(db)
		err = repo.InsertEntriesTx(context.Background(), tx, nil)
		assert.ErrorContains(t, err, "empty ledger batch")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects batch that does not sum to zero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		tx, err := db.Begin()
		require.NoError(t, err)

		repo := NewRepository(db)
		err = repo.InsertEntriesTx(context.Background(), tx, []Entry{
			{GroupID: 1, UserID: 1, Delta: 300, SourceType: SourceTypeExpense, SourceID: 9},
			{GroupID: 1, UserID: 2, Delta: -100, SourceType: SourceTypeExpense, SourceID: 9},
		})
		assert.ErrorContains(t, err, "sums to 200, want 0")
		// no insert may reach the database
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts every entry of a balanced batch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		for _, delta := range []int64{300, -150, -150} {
			mock.ExpectExec("INSERT INTO ledger_entries").
				WithArgs(int64(1), sqlmock.AnyArg(), delta, "expense", int64(9)).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}

		tx, err := db.Begin()
		require.NoError(t, err)

		repo := NewRepository(db)
		err = repo.InsertEntriesTx(context.Background(), tx, []Entry{
			{GroupID: 1, UserID: 1, Delta: 300, SourceType: SourceTypeExpense, SourceID: 9},
			{GroupID: 1, UserID: 2, Delta: -150, SourceType: SourceTypeExpense, SourceID: 9},
			{GroupID: 1, UserID: 3, Delta: -150, SourceType: SourceTypeExpense, SourceID: 9},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalances(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "sum"}).
		AddRow(1, 200).
		AddRow(2, -100).
		AddRow(3, -100)
	mock.ExpectQuery("SELECT user_id, SUM\\(delta\\)").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	repo := NewRepository(db)
	balances, err := repo.Balances(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, map[int64]int64{1: 200, 2: -100, 3: -100}, balances)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalancesWithNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "username", "sum"}).
		AddRow(1, "alice", 200).
		AddRow(2, "bob", -200)
	mock.ExpectQuery("SELECT le.user_id, u.username, SUM\\(le.delta\\)").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	repo := NewRepository(db)
	balances, err := repo.BalancesWithNames(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, balances, 2)
	assert.Equal(t, UserBalance{UserID: 1, Username: "alice", Balance: 200}, balances[0])
	assert.Equal(t, UserBalance{UserID: 2, Username: "bob", Balance: -200}, balances[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}
