package settlement

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateTx inserts a new settlement inside the caller's transaction.
func (r *Repository) CreateTx(ctx context.Context, tx *sql.Tx, groupID, fromUserID, toUserID, amount int64, note string, status Status) (*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, from_user_id, to_user_id, amount, note, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, from_user_id, to_user_id, amount, note, status, created_at
	`

	s := &Settlement{}
	err := tx.QueryRowContext(ctx, query, groupID, fromUserID, toUserID, amount, note, status).Scan(
		&s.ID,
		&s.GroupID,
		&s.FromUserID,
		&s.ToUserID,
		&s.Amount,
		&s.Note,
		&s.Status,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return s, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.from_user_id, s.to_user_id, s.amount, s.note, s.status, s.created_at,
		       f.username AS from_username, t.username AS to_username
		FROM settlements s
		JOIN users f ON s.from_user_id = f.id
		JOIN users t ON s.to_user_id = t.id
		WHERE s.id = $1
	`

	s := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.GroupID,
		&s.FromUserID,
		&s.ToUserID,
		&s.Amount,
		&s.Note,
		&s.Status,
		&s.CreatedAt,
		&s.FromUsername,
		&s.ToUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return s, nil
}

// GetForUpdateTx locks and retrieves a settlement inside the caller's
// transaction. The status transition reads the locked row, so two
// concurrent completion calls serialize and only the first one posts.
func (r *Repository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id int64) (*Settlement, error) {
	query := `
		SELECT id, group_id, from_user_id, to_user_id, amount, note, status, created_at
		FROM settlements
		WHERE id = $1
		FOR UPDATE
	`

	s := &Settlement{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.GroupID,
		&s.FromUserID,
		&s.ToUserID,
		&s.Amount,
		&s.Note,
		&s.Status,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock settlement: %w", err)
	}

	return s, nil
}

// UpdateStatusTx updates a settlement's status inside the caller's transaction.
func (r *Repository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id int64, status Status) error {
	query := `UPDATE settlements SET status = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	return nil
}

// ListByGroupID retrieves settlements for a group
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT s.id, s.group_id, s.from_user_id, s.to_user_id, s.amount, s.note, s.status, s.created_at,
		       f.username AS from_username, t.username AS to_username
		FROM settlements s
		JOIN users f ON s.from_user_id = f.id
		JOIN users t ON s.to_user_id = t.id
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		s := &Settlement{}
		if err := rows.Scan(
			&s.ID,
			&s.GroupID,
			&s.FromUserID,
			&s.ToUserID,
			&s.Amount,
			&s.Note,
			&s.Status,
			&s.CreatedAt,
			&s.FromUsername,
			&s.ToUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, s)
	}

	return settlements, total, rows.Err()
}
