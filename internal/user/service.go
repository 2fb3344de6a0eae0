package user

import (
	"context"
	"time"

	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Service handles user business logic
type Service struct {
	repo    *Repository
	timeout time.Duration
}

// NewService creates a new user service
func NewService(repo *Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// Create registers a new user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req.Username == "" || req.Email == "" {
		return nil, apperror.Validation("username and email are required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.Create(ctx, req)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("username or email already taken")
		}
		return nil, apperror.Storage(err, "failed to create user")
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage(err, "failed to get user")
	}
	if user == nil {
		return nil, apperror.NotFound("user", id)
	}
	return user, nil
}

// List retrieves users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	offset := (page - 1) * perPage
	users, total, err := s.repo.List(ctx, perPage, offset)
	if err != nil {
		return nil, 0, apperror.Storage(err, "failed to list users")
	}
	return users, total, nil
}
