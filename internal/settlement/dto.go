package settlement

// CreateSettlementRequest represents the request to record a settlement.
// The caller is the paying side; ToUserID is who they paid (or will pay).
type CreateSettlementRequest struct {
	GroupID  int64  `json:"group_id" validate:"required"`
	ToUserID int64  `json:"to_user_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gte=1"`
	Note     string `json:"note,omitempty" validate:"omitempty,max=500"`
}
