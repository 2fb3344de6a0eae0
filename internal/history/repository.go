package history

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository reads the raw rows the activity feed is composed from.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new history repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ExpenseRow is an expense as the feed sees it.
type ExpenseRow struct {
	ID            int64
	PayerID       int64
	PayerUsername string
	Amount        int64
	Description   string
	CreatedAt     sql.NullTime
}

// SettlementRow is a settlement as the feed sees it.
type SettlementRow struct {
	ID           int64
	FromUserID   int64
	FromUsername string
	ToUsername   string
	Amount       int64
	Status       string
	CreatedAt    sql.NullTime
}

// ListExpenses retrieves the non-deleted expenses of a group, newest first.
func (r *Repository) ListExpenses(ctx context.Context, groupID int64) ([]ExpenseRow, error) {
	query := `
		SELECT e.id, e.payer_id, u.username, e.amount, e.description, e.created_at
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1 AND e.is_deleted = FALSE
		ORDER BY e.created_at DESC, e.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses for history: %w", err)
	}
	defer rows.Close()

	var expenses []ExpenseRow
	for rows.Next() {
		var e ExpenseRow
		if err := rows.Scan(&e.ID, &e.PayerID, &e.PayerUsername, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense for history: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// ListSettlements retrieves all settlements of a group, newest first.
// Pending and rejected settlements stay in the feed; their status tells
// the reader they never touched the ledger.
func (r *Repository) ListSettlements(ctx context.Context, groupID int64) ([]SettlementRow, error) {
	query := `
		SELECT s.id, s.from_user_id, f.username, t.username, s.amount, s.status, s.created_at
		FROM settlements s
		JOIN users f ON s.from_user_id = f.id
		JOIN users t ON s.to_user_id = t.id
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements for history: %w", err)
	}
	defer rows.Close()

	var settlements []SettlementRow
	for rows.Next() {
		var s SettlementRow
		if err := rows.Scan(&s.ID, &s.FromUserID, &s.FromUsername, &s.ToUsername, &s.Amount, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement for history: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, rows.Err()
}
