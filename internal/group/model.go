package group

import "time"

// MemberRole represents the role of a group member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Group represents a group in the system. The name is immutable after
// creation; the token is issued once and shared to let others join.
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Membership represents a user's membership in a group, unique per
// (group, user). The creator becomes admin when the group is created;
// everyone joining by token becomes a member.
type Membership struct {
	ID       int64      `json:"id"`
	GroupID  int64      `json:"group_id"`
	UserID   int64      `json:"user_id"`
	Role     MemberRole `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
