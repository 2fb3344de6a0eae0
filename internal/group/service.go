package group

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/internal/audit"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Service handles group business logic
type Service struct {
	repo     *Repository
	auditSvc *audit.Service
	db       *sql.DB
	timeout  time.Duration
}

// NewService creates a new group service
func NewService(repo *Repository, auditSvc *audit.Service, db *sql.DB, timeout time.Duration) *Service {
	return &Service{repo: repo, auditSvc: auditSvc, db: db, timeout: timeout}
}

// Create creates a group and its creator's admin membership in one
// transaction, and issues the share token.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	if req.Name == "" {
		return nil, apperror.Validation("group name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	token := uuid.NewString()

	var group *Group
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		group, err = s.repo.CreateTx(ctx, tx, req.Name, creatorID, token)
		if err != nil {
			return err
		}

		_, err = s.repo.AddMemberTx(ctx, tx, group.ID, creatorID, MemberRoleAdmin)
		return err
	})
	if err != nil {
		return nil, apperror.Storage(err, "failed to create group")
	}

	s.auditSvc.Record(ctx, group.ID, creatorID, audit.ActionGroupCreated, "group", group.ID)

	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get group")
	}
	if group == nil {
		return nil, apperror.NotFound("group", id)
	}
	return group, nil
}

// ListByUserID retrieves all groups a user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	offset := (page - 1) * perPage
	groups, total, err := s.repo.ListByUserID(ctx, userID, perPage, offset)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list groups")
	}
	return groups, total, nil
}

// JoinByToken adds the user to the group the token belongs to. Joining a
// group the user already belongs to is not an error: the existing membership
// is returned unchanged.
func (s *Service) JoinByToken(ctx context.Context, userID int64, token string) (*Membership, error) {
	if token == "" {
		return nil, apperror.Validation("share token is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	group, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, apperror.Storage(err, "failed to resolve token")
	}
	if group == nil {
		return nil, apperror.NotFound("group token", token)
	}

	member, err := s.repo.AddMember(ctx, group.ID, userID, MemberRoleMember)
	if err != nil {
		if database.IsUniqueViolation(err) {
			// Idempotent join: the membership already exists.
			existing, getErr := s.repo.GetMember(ctx, group.ID, userID)
			if getErr != nil || existing == nil {
				return nil, apperror.Storage(err, "failed to join group")
			}
			return existing, nil
		}
		return nil, apperror.Storage(err, "failed to join group")
	}

	s.auditSvc.Record(ctx, group.ID, userID, audit.ActionGroupJoined, "group", group.ID)

	return member, nil
}

// AddMember lets a group admin add a user directly.
func (s *Service) AddMember(ctx context.Context, groupID, actorID int64, req *AddMemberRequest) (*Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	actor, err := s.repo.GetMember(ctx, groupID, actorID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to check membership")
	}
	if actor == nil {
		return nil, apperror.NotFound("group", groupID)
	}
	if actor.Role != MemberRoleAdmin {
		return nil, apperror.Validation("only an admin can add members")
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}

	member, err := s.repo.AddMember(ctx, groupID, req.UserID, role)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("user %d is already a member of group %d", req.UserID, groupID)
		}
		return nil, apperror.Storage(err, "failed to add member")
	}

	return member, nil
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*Membership, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get group")
	}
	if group == nil {
		return nil, apperror.NotFound("group", groupID)
	}

	members, err := s.repo.GetMembers(ctx, groupID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get members")
	}
	return members, nil
}

// IsMember reports whether the user belongs to the group. Used by the
// expense and settlement services to validate participants.
func (s *Service) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return false, apperror.Storage(err, "failed to check membership")
	}
	return member != nil, nil
}
