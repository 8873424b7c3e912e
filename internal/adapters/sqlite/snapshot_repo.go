// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/till/internal/ports/secondary"
)

// currentSlot is the snapshots row holding the working receipt.
const currentSlot = "current"

// SnapshotRepository implements secondary.SnapshotRepository with SQLite.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SQLite snapshot repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// GetCurrent retrieves the current snapshot.
func (r *SnapshotRepository) GetCurrent(ctx context.Context) (*secondary.SnapshotRecord, error) {
	var (
		payload   string
		updatedAt time.Time
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT payload, updated_at FROM snapshots WHERE slot = ?",
		currentSlot,
	).Scan(&payload, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current snapshot: %w", err)
	}

	return &secondary.SnapshotRecord{
		Payload:   payload,
		UpdatedAt: updatedAt.Format(time.RFC3339),
	}, nil
}

// SaveCurrent replaces the current snapshot.
func (r *SnapshotRepository) SaveCurrent(ctx context.Context, record *secondary.SnapshotRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (slot, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		currentSlot, record.Payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save current snapshot: %w", err)
	}
	return nil
}

// AppendHistory inserts a history entry and evicts the oldest entries so at
// most keep remain.
func (r *SnapshotRepository) AppendHistory(ctx context.Context, record *secondary.HistoryRecord, keep int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO snapshot_history (id, payload, saved_at) VALUES (?, ?, ?)",
		record.ID, record.Payload, record.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM snapshot_history WHERE seq NOT IN (
			SELECT seq FROM snapshot_history ORDER BY seq DESC LIMIT ?
		)`,
		keep,
	)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// ListHistory retrieves history entries, newest first.
func (r *SnapshotRepository) ListHistory(ctx context.Context) ([]*secondary.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, payload, saved_at FROM snapshot_history ORDER BY seq DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []*secondary.HistoryRecord
	for rows.Next() {
		rec := &secondary.HistoryRecord{}
		if err := rows.Scan(&rec.ID, &rec.Payload, &rec.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetHistory retrieves one history entry by ID.
func (r *SnapshotRepository) GetHistory(ctx context.Context, id string) (*secondary.HistoryRecord, error) {
	rec := &secondary.HistoryRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, payload, saved_at FROM snapshot_history WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.Payload, &rec.SavedAt)

	if err == sql.ErrNoRows {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return rec, nil
}

// Ensure SnapshotRepository implements the interface
var _ secondary.SnapshotRepository = (*SnapshotRepository)(nil)
