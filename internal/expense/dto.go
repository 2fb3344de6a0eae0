package expense

import "github.com/fkhayef/splitledger/internal/expense/split"

// Participant is one participant in an expense being recorded. Percentage is
// set for percentage splits, Amount (minor units) for exact splits.
type Participant struct {
	UserID     int64    `json:"user_id"`
	Percentage *float64 `json:"percentage,omitempty"`
	Amount     *int64   `json:"amount,omitempty"`
}

// ToSplitInput converts to the split package's input type
func (p *Participant) ToSplitInput() split.Input {
	return split.Input{
		UserID:     p.UserID,
		Percentage: p.Percentage,
		Amount:     p.Amount,
	}
}

// CreateExpenseRequest represents the request to record an expense
type CreateExpenseRequest struct {
	GroupID      int64          `json:"group_id" validate:"required"`
	Amount       int64          `json:"amount" validate:"required,gte=1"`
	Currency     string         `json:"currency,omitempty"`
	Description  string         `json:"description" validate:"required,min=1,max=255"`
	SplitType    string         `json:"split_type" validate:"required,oneof=equal percentage exact"`
	Participants []*Participant `json:"participants" validate:"required,min=1"`
}
