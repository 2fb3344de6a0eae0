package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

func TestGetSettlementPlan(t *testing.T) {
	t.Run("plans transfers for a balanced snapshot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT le.user_id, u.username, SUM\\(le.delta\\)").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "sum"}).
				AddRow(1, "alice", 200).
				AddRow(2, "bob", -100).
				AddRow(3, "carol", -100))

		svc := NewService(NewRepository(db), time.Second)
		plan, err := svc.GetSettlementPlan(context.Background(), 1)
		require.NoError(t, err)

		require.Len(t, plan, 2)
		assert.Equal(t, "bob", plan[0].FromName)
		assert.Equal(t, "alice", plan[0].ToName)
		assert.Equal(t, int64(100), plan[0].Amount)
	})

	t.Run("refuses a snapshot that does not sum to zero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT le.user_id, u.username, SUM\\(le.delta\\)").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "sum"}).
				AddRow(1, "alice", 200).
				AddRow(2, "bob", -100))

		svc := NewService(NewRepository(db), time.Second)
		_, err = svc.GetSettlementPlan(context.Background(), 1)
		require.Error(t, err)
		assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
	})

	t.Run("empty group settles to an empty plan", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT le.user_id, u.username, SUM\\(le.delta\\)").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "sum"}))

		svc := NewService(NewRepository(db), time.Second)
		plan, err := svc.GetSettlementPlan(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, plan)
		assert.NotNil(t, plan)
	})
}
