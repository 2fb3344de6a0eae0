package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles audit record persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new audit repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new audit record
func (r *Repository) Create(ctx context.Context, rec *Record) (*Record, error) {
	query := `
		INSERT INTO audit_log (group_id, actor_id, action, entity_type, entity_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, actor_id, action, entity_type, entity_id, created_at
	`

	created := &Record{}
	err := r.db.QueryRowContext(ctx, query, rec.GroupID, rec.ActorID, rec.Action, rec.EntityType, rec.EntityID).Scan(
		&created.ID,
		&created.GroupID,
		&created.ActorID,
		&created.Action,
		&created.EntityType,
		&created.EntityID,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit record: %w", err)
	}

	return created, nil
}

// ListByGroupID retrieves audit records for a group, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Record, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM audit_log WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit records: %w", err)
	}

	query := `
		SELECT id, group_id, actor_id, action, entity_type, entity_id, created_at
		FROM audit_log
		WHERE group_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(
			&rec.ID,
			&rec.GroupID,
			&rec.ActorID,
			&rec.Action,
			&rec.EntityType,
			&rec.EntityID,
			&rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, rows.Err()
}
