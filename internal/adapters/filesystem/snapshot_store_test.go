package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/till/internal/ports/secondary"
)

func newTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	return NewSnapshotStore(filepath.Join(t.TempDir(), "state", "receipt.json"))
}

func TestSnapshotStore_MissingFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetCurrent(ctx); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("GetCurrent: expected ErrNotFound, got %v", err)
	}
	records, err := store.ListHistory(ctx)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d", len(records))
	}
}

func TestSnapshotStore_SaveCurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := `{"storeName":"TARGET","items":[]}`

	if err := store.SaveCurrent(ctx, &secondary.SnapshotRecord{Payload: payload}); err != nil {
		t.Fatalf("SaveCurrent failed: %v", err)
	}

	got, err := store.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent failed: %v", err)
	}
	if got.Payload != payload {
		t.Errorf("payload = %s, want %s", got.Payload, payload)
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	if !strings.Contains(string(data), `"receiptData"`) {
		t.Errorf("store file missing receiptData key: %s", data)
	}
}

func TestSnapshotStore_RejectsNonJSONPayload(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveCurrent(context.Background(), &secondary.SnapshotRecord{Payload: "nope"}); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestSnapshotStore_HistoryIsBounded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 11; i++ {
		rec := &secondary.HistoryRecord{
			ID:      fmt.Sprintf("H-%02d", i),
			Payload: fmt.Sprintf(`{"n":%d}`, i),
			SavedAt: "2024-01-01T00:00:00Z",
		}
		if err := store.AppendHistory(ctx, rec, 10); err != nil {
			t.Fatalf("AppendHistory %d failed: %v", i, err)
		}
	}

	records, err := store.ListHistory(ctx)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(records))
	}
	if records[0].ID != "H-11" || records[9].ID != "H-02" {
		t.Errorf("order = %s..%s, want H-11..H-02", records[0].ID, records[9].ID)
	}
	if _, err := store.GetHistory(ctx, "H-01"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected H-01 evicted, got %v", err)
	}

	got, err := store.GetHistory(ctx, "H-05")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if got.Payload != `{"n":5}` {
		t.Errorf("payload = %s", got.Payload)
	}
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(store.path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.path, []byte("{garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.GetCurrent(ctx); !errors.Is(err, secondary.ErrCorrupt) {
		t.Errorf("GetCurrent: expected ErrCorrupt, got %v", err)
	}
	if _, err := store.ListHistory(ctx); !errors.Is(err, secondary.ErrCorrupt) {
		t.Errorf("ListHistory: expected ErrCorrupt, got %v", err)
	}
	if _, err := store.GetHistory(ctx, "HIST-001"); !errors.Is(err, secondary.ErrCorrupt) {
		t.Errorf("GetHistory: expected ErrCorrupt, got %v", err)
	}

	// A save recovers the file
	if err := store.SaveCurrent(ctx, &secondary.SnapshotRecord{Payload: `{}`}); err != nil {
		t.Fatalf("SaveCurrent over corrupt file failed: %v", err)
	}
	if _, err := store.GetCurrent(ctx); err != nil {
		t.Errorf("GetCurrent after recovery failed: %v", err)
	}
}
