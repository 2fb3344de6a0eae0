package settlement

import "time"

// Status represents the status of a settlement. Only completed settlements
// affect the ledger.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Settlement is an immutable record of a direct payment between two users.
type Settlement struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	FromUserID int64     `json:"from_user_id"` // who pays
	ToUserID   int64     `json:"to_user_id"`   // who receives
	Amount     int64     `json:"amount"`       // minor currency units, >= 1
	Note       string    `json:"note,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}
