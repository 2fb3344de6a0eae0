package audit

import (
	"context"
	"time"

	"github.com/fkhayef/splitledger/pkg/apperror"
	"github.com/fkhayef/splitledger/pkg/logger"
)

// Service handles the audit trail. Writes are best-effort: they run after the
// audited operation has committed, and a failed write is logged rather than
// surfaced, so an audit outage can never fail or roll back a ledger write.
type Service struct {
	repo    *Repository
	timeout time.Duration
}

// NewService creates a new audit service
func NewService(repo *Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// Record writes one audit entry, logging on failure.
func (s *Service) Record(ctx context.Context, groupID, actorID int64, action, entityType string, entityID int64) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.repo.Create(ctx, &Record{
		GroupID:    groupID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	})
	if err != nil {
		logger.Get().Errorw("failed to write audit record",
			"group_id", groupID,
			"actor_id", actorID,
			"action", action,
			"error", err,
		)
	}
}

// ListByGroupID retrieves audit records for a group, newest first
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Record, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	offset := (page - 1) * perPage
	records, total, err := s.repo.ListByGroupID(ctx, groupID, perPage, offset)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list audit records")
	}
	return records, total, nil
}
