package ledger

import "time"

// SourceType identifies the kind of record a ledger entry was generated from
type SourceType string

const (
	SourceTypeExpense    SourceType = "expense"
	SourceTypeSettlement SourceType = "settlement"
)

// Entry is the atomic unit of truth for balances. Entries are append-only:
// never updated or deleted. A correction is a new offsetting entry that
// references the same source.
type Entry struct {
	ID         int64      `json:"id"`
	GroupID    int64      `json:"group_id"`
	UserID     int64      `json:"user_id"`
	Delta      int64      `json:"delta"` // signed, minor currency units
	SourceType SourceType `json:"source_type"`
	SourceID   int64      `json:"source_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// UserBalance is one user's net position in a group: positive means the
// group owes them money, negative means they owe the group.
type UserBalance struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

// Transfer is one suggested payment in a settlement plan.
type Transfer struct {
	FromUserID int64  `json:"from_user_id"`
	FromName   string `json:"from"`
	ToUserID   int64  `json:"to_user_id"`
	ToName     string `json:"to"`
	Amount     int64  `json:"amount"`
}
