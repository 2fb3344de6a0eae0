package history

import (
	"context"
	"time"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Service composes the activity feed of a group
type Service struct {
	repo    *Repository
	timeout time.Duration
}

// NewService creates a new history service
func NewService(repo *Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// GetGroupHistory returns the merged expense and settlement feed for a
// group, newest first, paginated after the merge so interleaving is
// correct across page boundaries.
func (s *Service) GetGroupHistory(ctx context.Context, groupID int64, page, perPage int) ([]Item, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	expenses, err := s.repo.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to load expense history")
	}

	settlements, err := s.repo.ListSettlements(ctx, groupID)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to load settlement history")
	}

	items := Compose(expenses, settlements)
	total := len(items)

	start := (page - 1) * perPage
	if start >= total {
		return []Item{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return items[start:end], total, nil
}
