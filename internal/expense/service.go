package expense

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fkhayef/splitledger/internal/audit"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/ledger"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

const defaultCurrency = "INR"

// Service handles expense business logic
type Service struct {
	repo         *Repository
	groupRepo    *group.Repository
	ledgerRepo   *ledger.Repository
	auditSvc     *audit.Service
	splitFactory *split.Factory
	db           *sql.DB
	timeout      time.Duration
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, groupRepo *group.Repository, ledgerRepo *ledger.Repository, auditSvc *audit.Service, splitFactory *split.Factory, db *sql.DB, timeout time.Duration) *Service {
	return &Service{
		repo:         repo,
		groupRepo:    groupRepo,
		ledgerRepo:   ledgerRepo,
		auditSvc:     auditSvc,
		splitFactory: splitFactory,
		db:           db,
		timeout:      timeout,
	}
}

// Create records an expense: the expense row, one split row per participant,
// and N+1 ledger entries — a +total credit for the payer and a -share debit
// for every participant (a payer who also participates gets both rows, which
// keeps the batch zero-sum). All of it commits in one transaction or not at
// all.
func (s *Service) Create(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	if req.Amount < 1 {
		return nil, apperror.Validation("amount must be at least one minor unit")
	}
	if len(req.Participants) == 0 {
		return nil, apperror.Validation("at least one participant is required")
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	strategy, err := s.splitFactory.CreateFromString(req.SplitType)
	if err != nil {
		return nil, apperror.Validation("invalid split type %q", req.SplitType)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.checkMembership(ctx, req.GroupID, payerID, req.Participants); err != nil {
		return nil, err
	}

	inputs := make([]split.Input, len(req.Participants))
	for i, p := range req.Participants {
		inputs[i] = p.ToSplitInput()
	}

	shares, err := strategy.Calculate(req.Amount, inputs)
	if err != nil {
		var mismatch *split.MismatchError
		if errors.As(err, &mismatch) {
			return nil, apperror.Validation("%s", mismatch.Error())
		}
		return nil, apperror.Validation("%s", err.Error())
	}

	var result *ExpenseWithSplits
	err = database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		expense, err := s.repo.CreateExpenseTx(ctx, tx, payerID, req)
		if err != nil {
			return err
		}

		splits := make([]*ExpenseSplit, len(shares))
		entries := make([]ledger.Entry, 0, len(shares)+1)
		entries = append(entries, ledger.Entry{
			GroupID:    expense.GroupID,
			UserID:     payerID,
			Delta:      expense.Amount,
			SourceType: ledger.SourceTypeExpense,
			SourceID:   expense.ID,
		})

		for i, share := range shares {
			es, err := s.repo.CreateSplitTx(ctx, tx, expense.ID, share.UserID, share.Amount)
			if err != nil {
				return err
			}
			splits[i] = es

			entries = append(entries, ledger.Entry{
				GroupID:    expense.GroupID,
				UserID:     share.UserID,
				Delta:      -share.Amount,
				SourceType: ledger.SourceTypeExpense,
				SourceID:   expense.ID,
			})
		}

		if err := s.ledgerRepo.InsertEntriesTx(ctx, tx, entries); err != nil {
			return err
		}

		result = &ExpenseWithSplits{Expense: expense, Splits: splits}
		return nil
	})
	if err != nil {
		return nil, apperror.Storage(err, "failed to record expense")
	}

	s.auditSvc.Record(ctx, result.Expense.GroupID, payerID, audit.ActionExpenseCreated, "expense", result.Expense.ID)

	return result, nil
}

// checkMembership verifies the payer and every participant belong to the group.
func (s *Service) checkMembership(ctx context.Context, groupID, payerID int64, participants []*Participant) error {
	g, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return apperror.Storage(err, "failed to get group")
	}
	if g == nil {
		return apperror.NotFound("group", groupID)
	}

	members, err := s.groupRepo.GetMembers(ctx, groupID)
	if err != nil {
		return apperror.Storage(err, "failed to get members")
	}
	memberSet := make(map[int64]bool, len(members))
	for _, m := range members {
		memberSet[m.UserID] = true
	}

	if !memberSet[payerID] {
		return apperror.Validation("payer %d is not a member of group %d", payerID, groupID)
	}
	for _, p := range participants {
		if !memberSet[p.UserID] {
			return apperror.Validation("participant %d is not a member of group %d", p.UserID, groupID)
		}
	}

	return nil
}

// GetByID retrieves an expense with its shares
func (s *Service) GetByID(ctx context.Context, id int64) (*ExpenseWithSplits, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get expense")
	}
	if expense == nil {
		return nil, apperror.NotFound("expense", id)
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get splits")
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// ListByGroupID retrieves non-deleted expenses for a group
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	offset := (page - 1) * perPage
	expenses, total, err := s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list expenses")
	}
	return expenses, total, nil
}

// Delete soft-deletes an expense. The expense row is flagged and the exact
// negation of every ledger entry it produced is appended in the same
// transaction, so balances reflect the deletion while the ledger itself
// stays append-only. The row lock plus the deleted-flag check make a second
// delete fail instead of double-posting the reversal.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var groupID int64
	err := database.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		expense, err := s.repo.GetExpenseForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if expense == nil {
			return apperror.NotFound("expense", id)
		}
		if expense.PayerID != actorID {
			return apperror.Validation("only the payer can delete an expense")
		}
		if expense.IsDeleted {
			return apperror.Conflict("expense %d is already deleted", id)
		}

		if err := s.repo.MarkDeletedTx(ctx, tx, id); err != nil {
			return err
		}

		original, err := s.ledgerRepo.ListBySourceTx(ctx, tx, ledger.SourceTypeExpense, id)
		if err != nil {
			return err
		}

		reversal := make([]ledger.Entry, len(original))
		for i, e := range original {
			reversal[i] = ledger.Entry{
				GroupID:    e.GroupID,
				UserID:     e.UserID,
				Delta:      -e.Delta,
				SourceType: ledger.SourceTypeExpense,
				SourceID:   e.SourceID,
			}
		}

		groupID = expense.GroupID
		return s.ledgerRepo.InsertEntriesTx(ctx, tx, reversal)
	})
	if err != nil {
		if apperror.KindOf(err) != apperror.KindStorage {
			return err
		}
		return apperror.Storage(err, "failed to delete expense")
	}

	s.auditSvc.Record(ctx, groupID, actorID, audit.ActionExpenseDeleted, "expense", id)

	return nil
}
