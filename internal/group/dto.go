package group

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// JoinByTokenRequest represents the request to join a group with a share token
type JoinByTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// AddMemberRequest represents the request to add a member directly
type AddMemberRequest struct {
	UserID int64      `json:"user_id" validate:"required"`
	Role   MemberRole `json:"role,omitempty"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedBy int64  `json:"created_by"`
	Token     string `json:"token"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	return &GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		Token:     g.Token,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
