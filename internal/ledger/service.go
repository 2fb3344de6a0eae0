package ledger

import (
	"context"
	"time"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Service handles balance aggregation and settlement planning. Both are pure
// reads; they may race with an in-flight write and miss it, but they never
// observe a partially committed one.
type Service struct {
	repo    *Repository
	timeout time.Duration
}

// NewService creates a new ledger service
func NewService(repo *Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// GetBalances returns the net balance per user for a group, in minor units.
// The values always sum to zero.
func (s *Service) GetBalances(ctx context.Context, groupID int64) (map[int64]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	balances, err := s.repo.Balances(ctx, groupID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to read balances")
	}

	return balances, nil
}

// GetSettlementPlan returns the ordered list of suggested payments that would
// zero every balance in the group. Advisory only: nothing is posted.
func (s *Service) GetSettlementPlan(ctx context.Context, groupID int64) ([]Transfer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	balances, err := s.repo.BalancesWithNames(ctx, groupID)
	if err != nil {
		return nil, apperror.Storage(err, "failed to read balances")
	}

	var sum int64
	for _, b := range balances {
		sum += b.Balance
	}
	if sum != 0 {
		// Conservation is enforced on every write; a snapshot that does not
		// sum to zero means the ledger itself is corrupt.
		return nil, apperror.Storage(nil, "ledger conservation violated, refusing to plan")
	}

	return SimplifyDebts(balances), nil
}
