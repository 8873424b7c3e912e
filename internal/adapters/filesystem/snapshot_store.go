// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/till/internal/core/snapshot"
	"github.com/example/till/internal/ports/secondary"
)

// storeFile is the on-disk layout: one object keyed like the browser's
// local storage.
type storeFile struct {
	ReceiptData    json.RawMessage `json:"receiptData,omitempty"`
	UpdatedAt      string          `json:"updatedAt,omitempty"`
	ReceiptHistory []historyEntry  `json:"receiptHistory,omitempty"`
}

type historyEntry struct {
	ID      string          `json:"id"`
	SavedAt string          `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// SnapshotStore implements secondary.SnapshotRepository as a single JSON file.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewSnapshotStore creates a store backed by the file at path.
// The file and its directory are created on first write.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path, now: time.Now}
}

// GetCurrent retrieves the current snapshot.
func (s *SnapshotStore) GetCurrent(ctx context.Context) (*secondary.SnapshotRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(f.ReceiptData) == 0 {
		return nil, secondary.ErrNotFound
	}
	return &secondary.SnapshotRecord{Payload: string(f.ReceiptData), UpdatedAt: f.UpdatedAt}, nil
}

// SaveCurrent replaces the current snapshot.
func (s *SnapshotStore) SaveCurrent(ctx context.Context, record *secondary.SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid([]byte(record.Payload)) {
		return fmt.Errorf("failed to save current snapshot: payload is not JSON")
	}

	f, err := s.readOrEmpty()
	if err != nil {
		return err
	}
	f.ReceiptData = json.RawMessage(record.Payload)
	f.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	return s.write(f)
}

// AppendHistory appends a history entry, keeping at most keep entries.
func (s *SnapshotStore) AppendHistory(ctx context.Context, record *secondary.HistoryRecord, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid([]byte(record.Payload)) {
		return fmt.Errorf("failed to append history: payload is not JSON")
	}

	f, err := s.readOrEmpty()
	if err != nil {
		return err
	}
	f.ReceiptHistory = snapshot.AppendBounded(f.ReceiptHistory, historyEntry{
		ID:      record.ID,
		SavedAt: record.SavedAt,
		Data:    json.RawMessage(record.Payload),
	}, keep)
	return s.write(f)
}

// ListHistory retrieves history entries, newest first.
func (s *SnapshotStore) ListHistory(ctx context.Context) ([]*secondary.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err == secondary.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	records := make([]*secondary.HistoryRecord, 0, len(f.ReceiptHistory))
	for i := len(f.ReceiptHistory) - 1; i >= 0; i-- {
		records = append(records, toRecord(f.ReceiptHistory[i]))
	}
	return records, nil
}

// GetHistory retrieves one history entry by ID.
func (s *SnapshotStore) GetHistory(ctx context.Context, id string) (*secondary.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, e := range f.ReceiptHistory {
		if e.ID == id {
			return toRecord(e), nil
		}
	}
	return nil, secondary.ErrNotFound
}

func toRecord(e historyEntry) *secondary.HistoryRecord {
	return &secondary.HistoryRecord{ID: e.ID, Payload: string(e.Data), SavedAt: e.SavedAt}
}

// read loads the store file. A missing file is ErrNotFound, unparseable
// content wraps ErrCorrupt.
func (s *SnapshotStore) read() (*storeFile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, secondary.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %w", s.path, secondary.ErrCorrupt, err)
	}
	return &f, nil
}

// readOrEmpty loads the store file for a write. Unreadable content is
// replaced rather than blocking every future save.
func (s *SnapshotStore) readOrEmpty() (*storeFile, error) {
	f, err := s.read()
	if err != nil {
		if _, statErr := os.Stat(s.path); statErr != nil && !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("failed to access %s: %w", s.path, statErr)
		}
		return &storeFile{}, nil
	}
	return f, nil
}

// write replaces the store file atomically.
func (s *SnapshotStore) write(f *storeFile) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".receipt-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Ensure SnapshotStore implements the interface
var _ secondary.SnapshotRepository = (*SnapshotStore)(nil)
