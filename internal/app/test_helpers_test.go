package app

import (
	"context"
	"errors"
	"sync"

	"github.com/example/till/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.SnapshotRepository = (*mockSnapshotRepository)(nil)
	_ secondary.CatalogSource      = (*mockCatalogSource)(nil)
)

// mockSnapshotRepository implements secondary.SnapshotRepository in memory.
type mockSnapshotRepository struct {
	mu       sync.Mutex
	current  *secondary.SnapshotRecord
	history  []*secondary.HistoryRecord // oldest first
	getErr   error
	saveErr  error
	listErr  error
	saveCall int
}

func newMockSnapshotRepository() *mockSnapshotRepository {
	return &mockSnapshotRepository{}
}

func (m *mockSnapshotRepository) GetCurrent(ctx context.Context) (*secondary.SnapshotRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.current == nil {
		return nil, secondary.ErrNotFound
	}
	rec := *m.current
	return &rec, nil
}

func (m *mockSnapshotRepository) SaveCurrent(ctx context.Context, record *secondary.SnapshotRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCall++
	if m.saveErr != nil {
		return m.saveErr
	}
	rec := *record
	m.current = &rec
	return nil
}

func (m *mockSnapshotRepository) AppendHistory(ctx context.Context, record *secondary.HistoryRecord, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := *record
	m.history = append(m.history, &rec)
	if len(m.history) > keep {
		m.history = m.history[len(m.history)-keep:]
	}
	return nil
}

func (m *mockSnapshotRepository) ListHistory(ctx context.Context) ([]*secondary.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*secondary.HistoryRecord, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		out = append(out, m.history[i])
	}
	return out, nil
}

func (m *mockSnapshotRepository) GetHistory(ctx context.Context, id string) (*secondary.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.history {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, secondary.ErrNotFound
}

// mockCatalogSource implements secondary.CatalogSource for testing.
type mockCatalogSource struct {
	data    string
	format  string
	err     error
	fetches int
}

func (m *mockCatalogSource) Fetch(ctx context.Context) (*secondary.CatalogDocument, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return &secondary.CatalogDocument{Data: []byte(m.data), Format: m.format, Origin: "mock"}, nil
}

var errBoom = errors.New("boom")
