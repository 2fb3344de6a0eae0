package audit

import "time"

// Record is one entry in a group's audit trail: who did what to which entity.
// Purely informational; never part of balance computation.
type Record struct {
	ID         int64     `json:"id"`
	GroupID    int64     `json:"group_id"`
	ActorID    int64     `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Actions written by the other services.
const (
	ActionExpenseCreated     = "expense.created"
	ActionExpenseDeleted     = "expense.deleted"
	ActionSettlementCreated  = "settlement.created"
	ActionSettlementComplete = "settlement.completed"
	ActionSettlementRejected = "settlement.rejected"
	ActionGroupCreated       = "group.created"
	ActionGroupJoined        = "group.joined"
)
