package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyDebts(t *testing.T) {
	t.Run("one creditor two debtors", func(t *testing.T) {
		transfers := SimplifyDebts([]UserBalance{
			{UserID: 1, Username: "alice", Balance: 200},
			{UserID: 2, Username: "bob", Balance: -100},
			{UserID: 3, Username: "carol", Balance: -100},
		})

		require.Len(t, transfers, 2)
		assert.Equal(t, Transfer{FromUserID: 2, FromName: "bob", ToUserID: 1, ToName: "alice", Amount: 100}, transfers[0])
		assert.Equal(t, Transfer{FromUserID: 3, FromName: "carol", ToUserID: 1, ToName: "alice", Amount: 100}, transfers[1])
	})

	t.Run("chain collapses to direct transfers", func(t *testing.T) {
		// B owes A, C owes B: the plan should not route money through B.
		transfers := SimplifyDebts([]UserBalance{
			{UserID: 1, Username: "alice", Balance: 300},
			{UserID: 2, Username: "bob", Balance: 0},
			{UserID: 3, Username: "carol", Balance: -300},
		})

		require.Len(t, transfers, 1)
		assert.Equal(t, int64(3), transfers[0].FromUserID)
		assert.Equal(t, int64(1), transfers[0].ToUserID)
		assert.Equal(t, int64(300), transfers[0].Amount)
	})

	t.Run("zero balances never appear", func(t *testing.T) {
		transfers := SimplifyDebts([]UserBalance{
			{UserID: 1, Balance: 0},
			{UserID: 2, Balance: 0},
		})
		assert.Empty(t, transfers)
		assert.NotNil(t, transfers)
	})

	t.Run("plan zeroes every balance", func(t *testing.T) {
		balances := []UserBalance{
			{UserID: 1, Balance: 550},
			{UserID: 2, Balance: -120},
			{UserID: 3, Balance: -430},
			{UserID: 4, Balance: 275},
			{UserID: 5, Balance: -275},
		}

		transfers := SimplifyDebts(balances)

		net := make(map[int64]int64)
		for _, b := range balances {
			net[b.UserID] = b.Balance
		}
		for _, tr := range transfers {
			assert.Positive(t, tr.Amount)
			net[tr.FromUserID] += tr.Amount
			net[tr.ToUserID] -= tr.Amount
		}
		for userID, remaining := range net {
			assert.Zerof(t, remaining, "user %d not settled", userID)
		}
	})

	t.Run("transfer count bounded by smaller side", func(t *testing.T) {
		transfers := SimplifyDebts([]UserBalance{
			{UserID: 1, Balance: 1000},
			{UserID: 2, Balance: -250},
			{UserID: 3, Balance: -250},
			{UserID: 4, Balance: -250},
			{UserID: 5, Balance: -250},
		})
		// one creditor: every debtor pays once and no more
		assert.Len(t, transfers, 4)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		balances := func() []UserBalance {
			return []UserBalance{
				{UserID: 4, Balance: 100},
				{UserID: 2, Balance: 100},
				{UserID: 1, Balance: -100},
				{UserID: 3, Balance: -100},
			}
		}

		first := SimplifyDebts(balances())
		second := SimplifyDebts(balances())
		assert.Equal(t, first, second)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		// equal creditor balances: stable sort keeps user 2 before user 4
		transfers := SimplifyDebts([]UserBalance{
			{UserID: 2, Balance: 100},
			{UserID: 4, Balance: 100},
			{UserID: 5, Balance: -200},
		})

		require.Len(t, transfers, 2)
		assert.Equal(t, int64(2), transfers[0].ToUserID)
		assert.Equal(t, int64(4), transfers[1].ToUserID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SimplifyDebts(nil))
	})
}
