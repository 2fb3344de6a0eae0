package history

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestCompose(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("interleaves newest first", func(t *testing.T) {
		expenses := []ExpenseRow{
			{ID: 1, PayerID: 10, PayerUsername: "alice", Amount: 300, Description: "dinner", CreatedAt: at(base)},
			{ID: 2, PayerID: 20, PayerUsername: "bob", Amount: 150, Description: "cab", CreatedAt: at(base.Add(2 * time.Hour))},
		}
		settlements := []SettlementRow{
			{ID: 7, FromUserID: 20, FromUsername: "bob", ToUsername: "alice", Amount: 100, Status: "completed", CreatedAt: at(base.Add(time.Hour))},
		}

		items := Compose(expenses, settlements)

		require.Len(t, items, 3)
		assert.Equal(t, KindExpense, items[0].Kind)
		assert.Equal(t, "cab", items[0].Title)
		assert.Equal(t, KindSettlement, items[1].Kind)
		assert.Equal(t, KindExpense, items[2].Kind)
		assert.Equal(t, "dinner", items[2].Title)
	})

	t.Run("settlement title names both sides", func(t *testing.T) {
		items := Compose(nil, []SettlementRow{
			{ID: 7, FromUserID: 20, FromUsername: "bob", ToUsername: "alice", Amount: 100, Status: "completed", CreatedAt: at(base)},
		})

		require.Len(t, items, 1)
		assert.Equal(t, "bob paid alice", items[0].Title)
		assert.Equal(t, "completed", items[0].Status)
		assert.Equal(t, "bob", items[0].ActorName)
	})

	t.Run("timestamp ties put expenses first", func(t *testing.T) {
		items := Compose(
			[]ExpenseRow{{ID: 1, Description: "dinner", CreatedAt: at(base)}},
			[]SettlementRow{{ID: 7, FromUsername: "bob", ToUsername: "alice", CreatedAt: at(base)}},
		)

		require.Len(t, items, 2)
		assert.Equal(t, KindExpense, items[0].Kind)
		assert.Equal(t, KindSettlement, items[1].Kind)
	})

	t.Run("deterministic for the same rows", func(t *testing.T) {
		expenses := []ExpenseRow{
			{ID: 1, Description: "a", CreatedAt: at(base)},
			{ID: 2, Description: "b", CreatedAt: at(base)},
			{ID: 3, Description: "c", CreatedAt: at(base.Add(time.Minute))},
		}

		first := Compose(expenses, nil)
		second := Compose(expenses, nil)
		assert.Equal(t, first, second)

		// same timestamp: higher ID (newer row) first
		assert.Equal(t, int64(3), first[0].SourceID)
		assert.Equal(t, int64(2), first[1].SourceID)
		assert.Equal(t, int64(1), first[2].SourceID)
	})

	t.Run("empty inputs", func(t *testing.T) {
		items := Compose(nil, nil)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}
