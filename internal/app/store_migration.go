package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/till/internal/core/snapshot"
	"github.com/example/till/internal/ports/secondary"
)

// MigrationResult reports what a snapshot import copied.
type MigrationResult struct {
	Current bool     // current snapshot copied
	Copied  []string // history IDs copied, oldest first
	Skipped []string // history IDs already present or unreadable
}

// MigrateSnapshots copies the current snapshot and history from src into
// dst. History is replayed oldest first so dst keeps the newest entries.
// Entries dst already holds are skipped. With dryRun nothing is written.
func MigrateSnapshots(ctx context.Context, src, dst secondary.SnapshotRepository, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{}

	current, err := src.GetCurrent(ctx)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to read current snapshot: %w", err)
	default:
		if _, err := snapshot.Decode([]byte(current.Payload)); err != nil {
			return nil, fmt.Errorf("current snapshot is unreadable: %w", err)
		}
		if !dryRun {
			if err := dst.SaveCurrent(ctx, current); err != nil {
				return nil, fmt.Errorf("failed to write current snapshot: %w", err)
			}
		}
		result.Current = true
	}

	history, err := src.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	for i := len(history) - 1; i >= 0; i-- {
		rec := history[i]
		if _, err := snapshot.Decode([]byte(rec.Payload)); err != nil {
			result.Skipped = append(result.Skipped, rec.ID)
			continue
		}
		if _, err := dst.GetHistory(ctx, rec.ID); err == nil {
			result.Skipped = append(result.Skipped, rec.ID)
			continue
		} else if !errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("failed to check history entry %s: %w", rec.ID, err)
		}

		if !dryRun {
			if err := dst.AppendHistory(ctx, rec, snapshot.MaxHistory); err != nil {
				return nil, fmt.Errorf("failed to copy history entry %s: %w", rec.ID, err)
			}
		}
		result.Copied = append(result.Copied, rec.ID)
	}

	return result, nil
}
