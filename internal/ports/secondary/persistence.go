// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorrupt is returned when the backing store exists but cannot be parsed.
var ErrCorrupt = errors.New("store is unreadable")

// SnapshotRepository defines the secondary port for snapshot persistence.
// Payloads are stored verbatim; decoding is the caller's concern.
type SnapshotRepository interface {
	// GetCurrent returns the current-snapshot record, or ErrNotFound.
	GetCurrent(ctx context.Context) (*SnapshotRecord, error)

	// SaveCurrent replaces the current-snapshot record.
	SaveCurrent(ctx context.Context, record *SnapshotRecord) error

	// AppendHistory appends a history record and evicts the oldest records
	// until at most keep remain.
	AppendHistory(ctx context.Context, record *HistoryRecord, keep int) error

	// ListHistory returns history records, newest first.
	ListHistory(ctx context.Context) ([]*HistoryRecord, error)

	// GetHistory returns one history record, or ErrNotFound.
	GetHistory(ctx context.Context, id string) (*HistoryRecord, error)
}

// SnapshotRecord represents the current snapshot as stored in persistence.
type SnapshotRecord struct {
	Payload   string
	UpdatedAt string
}

// HistoryRecord represents a saved snapshot copy as stored in persistence.
type HistoryRecord struct {
	ID      string
	Payload string
	SavedAt string // RFC3339
}
