package history

import "time"

// Kind distinguishes the two activity sources in a group's history.
type Kind string

const (
	KindExpense    Kind = "expense"
	KindSettlement Kind = "settlement"
)

// Item is one entry in a group's activity feed. Expenses and settlements
// are flattened into the same shape so the feed can interleave them.
type Item struct {
	Kind      Kind      `json:"kind"`
	SourceID  int64     `json:"source_id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"` // minor currency units
	ActorID   int64     `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Status    string    `json:"status,omitempty"` // settlements only
	CreatedAt time.Time `json:"created_at"`
}
