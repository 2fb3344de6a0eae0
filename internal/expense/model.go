package expense

import "time"

// Expense is an immutable record of a group expense. Its monetary effect is
// never mutated in place: soft deletion flags the record and posts offsetting
// ledger entries, it does not rewrite history.
type Expense struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"group_id"`
	PayerID     int64     `json:"payer_id"`
	Amount      int64     `json:"amount"` // minor currency units, >= 1
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	SplitType   string    `json:"split_type"` // equal, percentage, exact
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// ExpenseSplit is one participant's share of an expense, payer included.
// Unique per (expense, user); the shares of an expense sum to its total
// exactly.
type ExpenseSplit struct {
	ID        int64     `json:"id"`
	ExpenseID int64     `json:"expense_id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"` // minor currency units
	CreatedAt time.Time `json:"created_at"`
}

// ExpenseWithSplits combines an expense with its per-participant shares
type ExpenseWithSplits struct {
	Expense *Expense        `json:"expense"`
	Splits  []*ExpenseSplit `json:"splits"`
}
