package expense

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpenseTx inserts a new expense inside the caller's transaction.
func (r *Repository) CreateExpenseTx(ctx context.Context, tx *sql.Tx, payerID int64, req *CreateExpenseRequest) (*Expense, error) {
	query := `
		INSERT INTO expenses (group_id, payer_id, amount, currency, description, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, payer_id, amount, currency, description, split_type, is_deleted, created_at
	`

	expense := &Expense{}
	err := tx.QueryRowContext(ctx, query,
		req.GroupID,
		payerID,
		req.Amount,
		req.Currency,
		req.Description,
		req.SplitType,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Amount,
		&expense.Currency,
		&expense.Description,
		&expense.SplitType,
		&expense.IsDeleted,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

// CreateSplitTx inserts one participant share inside the caller's transaction.
func (r *Repository) CreateSplitTx(ctx context.Context, tx *sql.Tx, expenseID, userID, amount int64) (*ExpenseSplit, error) {
	query := `
		INSERT INTO expense_splits (expense_id, user_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, user_id, amount, created_at
	`

	es := &ExpenseSplit{}
	err := tx.QueryRowContext(ctx, query, expenseID, userID, amount).Scan(
		&es.ID,
		&es.ExpenseID,
		&es.UserID,
		&es.Amount,
		&es.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create split: %w", err)
	}

	return es, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.amount, e.currency, e.description, e.split_type, e.is_deleted, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Amount,
		&expense.Currency,
		&expense.Description,
		&expense.SplitType,
		&expense.IsDeleted,
		&expense.CreatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetExpenseForUpdateTx locks and retrieves an expense inside the caller's
// transaction. Used by soft delete to serialize concurrent deletions.
func (r *Repository) GetExpenseForUpdateTx(ctx context.Context, tx *sql.Tx, id int64) (*Expense, error) {
	query := `
		SELECT id, group_id, payer_id, amount, currency, description, split_type, is_deleted, created_at
		FROM expenses
		WHERE id = $1
		FOR UPDATE
	`

	expense := &Expense{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Amount,
		&expense.Currency,
		&expense.Description,
		&expense.SplitType,
		&expense.IsDeleted,
		&expense.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock expense: %w", err)
	}

	return expense, nil
}

// MarkDeletedTx flags an expense as deleted inside the caller's transaction.
func (r *Repository) MarkDeletedTx(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `UPDATE expenses SET is_deleted = TRUE WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark expense deleted: %w", err)
	}
	return nil
}

// GetSplitsByExpenseID retrieves all shares of an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*ExpenseSplit, error) {
	query := `
		SELECT id, expense_id, user_id, amount, created_at
		FROM expense_splits
		WHERE expense_id = $1
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*ExpenseSplit
	for rows.Next() {
		es := &ExpenseSplit{}
		if err := rows.Scan(&es.ID, &es.ExpenseID, &es.UserID, &es.Amount, &es.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, es)
	}

	return splits, rows.Err()
}

// ListExpensesByGroupID retrieves non-deleted expenses for a group
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1 AND is_deleted = FALSE`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.amount, e.currency, e.description, e.split_type, e.is_deleted, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1 AND e.is_deleted = FALSE
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.Amount,
			&expense.Currency,
			&expense.Description,
			&expense.SplitType,
			&expense.IsDeleted,
			&expense.CreatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, rows.Err()
}
