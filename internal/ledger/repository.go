package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles ledger entry persistence. The ledger table only ever
// receives inserts; balances are always recomputed from the full entry set.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new ledger repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertEntriesTx appends a batch of entries produced by one source record,
// inside the caller's transaction. The deltas of a batch must sum to zero;
// a batch that would create or destroy money is rejected before any row is
// written.
func (r *Repository) InsertEntriesTx(ctx context.Context, tx *sql.Tx, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("refusing to insert empty ledger batch")
	}

	var sum int64
	for _, e := range entries {
		sum += e.Delta
	}
	if sum != 0 {
		return fmt.Errorf("ledger batch for %s %d sums to %d, want 0", entries[0].SourceType, entries[0].SourceID, sum)
	}

	query := `
		INSERT INTO ledger_entries (group_id, user_id, delta, source_type, source_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.GroupID, e.UserID, e.Delta, e.SourceType, e.SourceID); err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}
	}

	return nil
}

// ListBySourceTx retrieves all entries generated by one source record, inside
// the caller's transaction. Used to build offsetting reversal batches.
func (r *Repository) ListBySourceTx(ctx context.Context, tx *sql.Tx, sourceType SourceType, sourceID int64) ([]Entry, error) {
	query := `
		SELECT id, group_id, user_id, delta, source_type, source_id, created_at
		FROM ledger_entries
		WHERE source_type = $1 AND source_id = $2
		ORDER BY id
	`

	rows, err := tx.QueryContext(ctx, query, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.GroupID, &e.UserID, &e.Delta, &e.SourceType, &e.SourceID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountBySource returns the number of entries generated by one source record.
func (r *Repository) CountBySource(ctx context.Context, sourceType SourceType, sourceID int64) (int, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE source_type = $1 AND source_id = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, sourceType, sourceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

// Balances aggregates the full entry set of a group into one net balance per
// user. Deliberately a full recomputation every call: there is no cached
// running total that could drift from the ledger.
func (r *Repository) Balances(ctx context.Context, groupID int64) (map[int64]int64, error) {
	query := `
		SELECT user_id, SUM(delta)
		FROM ledger_entries
		WHERE group_id = $1
		GROUP BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[int64]int64)
	for rows.Next() {
		var userID, balance int64
		if err := rows.Scan(&userID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[userID] = balance
	}

	return balances, rows.Err()
}

// BalancesWithNames aggregates balances joined with display names, ordered by
// ascending user ID so downstream output is deterministic.
func (r *Repository) BalancesWithNames(ctx context.Context, groupID int64) ([]UserBalance, error) {
	query := `
		SELECT le.user_id, u.username, SUM(le.delta)
		FROM ledger_entries le
		JOIN users u ON le.user_id = u.id
		WHERE le.group_id = $1
		GROUP BY le.user_id, u.username
		ORDER BY le.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	defer rows.Close()

	var balances []UserBalance
	for rows.Next() {
		var b UserBalance
		if err := rows.Scan(&b.UserID, &b.Username, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}
