package settlement

import (
	"context"
	"database/sql"
	"time"

	"github.com/fkhayef/splitledger/internal/audit"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/ledger"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Service handles settlement business logic
type Service struct {
	repo       *Repository
	groupRepo  *group.Repository
	ledgerRepo *ledger.Repository
	auditSvc   *audit.Service
	db         *sql.DB
	timeout    time.Duration
}

// NewService creates a new settlement service
func NewService(repo *Repository, groupRepo *group.Repository, ledgerRepo *ledger.Repository, auditSvc *audit.Service, db *sql.DB, timeout time.Duration) *Service {
	return &Service{
		repo:       repo,
		groupRepo:  groupRepo,
		ledgerRepo: ledgerRepo,
		auditSvc:   auditSvc,
		db:         db,
		timeout:    timeout,
	}
}

// Create records a completed settlement: the caller paid req.ToUserID
// directly. The settlement row and its two ledger entries (-amount payer,
// +amount receiver) commit in one transaction or not at all.
func (s *Service) Create(ctx context.Context, fromUserID int64, req *CreateSettlementRequest) (*Settlement, error) {
	return s.create(ctx, fromUserID, req, StatusCompleted)
}

// CreatePending records a settlement the caller intends to pay. No ledger
// effect until the receiver completes it.
func (s *Service) CreatePending(ctx context.Context, fromUserID int64, req *CreateSettlementRequest) (*Settlement, error) {
	return s.create(ctx, fromUserID, req, StatusPending)
}

func (s *Service) create(ctx context.Context, fromUserID int64, req *CreateSettlementRequest, status Status) (*Settlement, error) {
	if fromUserID == req.ToUserID {
		return nil, apperror.Validation("cannot settle with yourself")
	}
	if req.Amount < 1 {
		return nil, apperror.Validation("amount must be at least one minor unit")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, userID := range []int64{fromUserID, req.ToUserID} {
		member, err := s.groupRepo.GetMember(ctx, req.GroupID, userID)
		if err != nil {
			return nil, apperror.Storage(err, "failed to check membership")
		}
		if member == nil {
			return nil, apperror.Validation("user %d is not a member of group %d", userID, req.GroupID)
		}
	}

	var created *Settlement
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		created, err = s.repo.CreateTx(ctx, tx, req.GroupID, fromUserID, req.ToUserID, req.Amount, req.Note, status)
		if err != nil {
			return err
		}

		if status != StatusCompleted {
			return nil
		}
		return s.ledgerRepo.InsertEntriesTx(ctx, tx, entriesFor(created))
	})
	if err != nil {
		return nil, apperror.Storage(err, "failed to record settlement")
	}

	s.auditSvc.Record(ctx, created.GroupID, fromUserID, audit.ActionSettlementCreated, "settlement", created.ID)

	return created, nil
}

// Complete transitions a pending settlement to completed and posts its two
// ledger entries exactly once. The row is locked for the whole transition,
// so a retried or concurrent completion finds the settlement already
// completed and posts nothing.
func (s *Service) Complete(ctx context.Context, id, actorID int64) (*Settlement, error) {
	return s.transition(ctx, id, actorID, StatusCompleted)
}

// Reject transitions a pending settlement to rejected. Never posts.
func (s *Service) Reject(ctx context.Context, id, actorID int64) (*Settlement, error) {
	return s.transition(ctx, id, actorID, StatusRejected)
}

func (s *Service) transition(ctx context.Context, id, actorID int64, target Status) (*Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var updated *Settlement
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		locked, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperror.NotFound("settlement", id)
		}
		if locked.ToUserID != actorID {
			return apperror.Validation("only the receiver can confirm or reject a settlement")
		}
		if locked.Status != StatusPending {
			return apperror.Conflict("settlement %d is already %s", id, locked.Status)
		}

		if err := s.repo.UpdateStatusTx(ctx, tx, id, target); err != nil {
			return err
		}

		if target == StatusCompleted {
			if err := s.ledgerRepo.InsertEntriesTx(ctx, tx, entriesFor(locked)); err != nil {
				return err
			}
		}

		locked.Status = target
		updated = locked
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) != apperror.KindStorage {
			return nil, err
		}
		return nil, apperror.Storage(err, "failed to update settlement")
	}

	action := audit.ActionSettlementComplete
	if target == StatusRejected {
		action = audit.ActionSettlementRejected
	}
	s.auditSvc.Record(ctx, updated.GroupID, actorID, action, "settlement", id)

	return updated, nil
}

// GetByID retrieves a settlement by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	settlement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get settlement")
	}
	if settlement == nil {
		return nil, apperror.NotFound("settlement", id)
	}
	return settlement, nil
}

// ListByGroupID retrieves settlements for a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	offset := (page - 1) * perPage
	settlements, total, err := s.repo.ListByGroupID(ctx, groupID, perPage, offset)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list settlements")
	}
	return settlements, total, nil
}

// entriesFor builds the two ledger entries a settlement posts: the payer's
// balance rises (they are owed the money back, or owe less) and the
// receiver's falls.
func entriesFor(s *Settlement) []ledger.Entry {
	return []ledger.Entry{
		{
			GroupID:    s.GroupID,
			UserID:     s.FromUserID,
			Delta:      s.Amount,
			SourceType: ledger.SourceTypeSettlement,
			SourceID:   s.ID,
		},
		{
			GroupID:    s.GroupID,
			UserID:     s.ToUserID,
			Delta:      -s.Amount,
			SourceType: ledger.SourceTypeSettlement,
			SourceID:   s.ID,
		},
	}
}
