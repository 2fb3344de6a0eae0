package history

import (
	"fmt"
	"sort"
)

// Compose merges expense and settlement rows into one feed, newest first.
// Both inputs are already newest-first, but the merge re-sorts rather than
// zips so callers don't have to guarantee ordering. Ties keep expenses
// before settlements, then higher IDs first, so repeated composition of
// the same rows yields the same feed.
func Compose(expenses []ExpenseRow, settlements []SettlementRow) []Item {
	items := make([]Item, 0, len(expenses)+len(settlements))

	for _, e := range expenses {
		items = append(items, Item{
			Kind:      KindExpense,
			SourceID:  e.ID,
			Title:     e.Description,
			Amount:    e.Amount,
			ActorID:   e.PayerID,
			ActorName: e.PayerUsername,
			CreatedAt: e.CreatedAt.Time,
		})
	}

	for _, s := range settlements {
		items = append(items, Item{
			Kind:      KindSettlement,
			SourceID:  s.ID,
			Title:     fmt.Sprintf("%s paid %s", s.FromUsername, s.ToUsername),
			Amount:    s.Amount,
			ActorID:   s.FromUserID,
			ActorName: s.FromUsername,
			Status:    s.Status,
			CreatedAt: s.CreatedAt.Time,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		if items[i].Kind != items[j].Kind {
			return items[i].Kind == KindExpense
		}
		return items[i].SourceID > items[j].SourceID
	})

	return items
}
