package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/example/till/internal/adapters/sqlite"
	"github.com/example/till/internal/ports/secondary"
)

func TestSnapshotRepository_GetCurrent_NotFound(t *testing.T) {
	repo := sqlite.NewSnapshotRepository(setupTestDB(t))

	_, err := repo.GetCurrent(context.Background())
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotRepository_SaveCurrent_Overwrites(t *testing.T) {
	repo := sqlite.NewSnapshotRepository(setupTestDB(t))
	ctx := context.Background()

	for _, payload := range []string{`{"storeName":"A"}`, `{"storeName":"B"}`} {
		if err := repo.SaveCurrent(ctx, &secondary.SnapshotRecord{Payload: payload}); err != nil {
			t.Fatalf("SaveCurrent failed: %v", err)
		}
	}

	got, err := repo.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent failed: %v", err)
	}
	if got.Payload != `{"storeName":"B"}` {
		t.Errorf("payload = %s, want latest write", got.Payload)
	}
	if got.UpdatedAt == "" {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestSnapshotRepository_AppendHistory_EvictsOldest(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewSnapshotRepository(testDB)
	ctx := context.Background()

	for i := 1; i <= 11; i++ {
		rec := &secondary.HistoryRecord{
			ID:      fmt.Sprintf("H-%02d", i),
			Payload: fmt.Sprintf(`{"n":%d}`, i),
			SavedAt: fmt.Sprintf("2024-01-01T00:00:%02dZ", i),
		}
		if err := repo.AppendHistory(ctx, rec, 10); err != nil {
			t.Fatalf("AppendHistory %d failed: %v", i, err)
		}
	}

	records, err := repo.ListHistory(ctx)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(records))
	}
	if records[0].ID != "H-11" {
		t.Errorf("newest = %s, want H-11", records[0].ID)
	}
	if records[9].ID != "H-02" {
		t.Errorf("oldest = %s, want H-02", records[9].ID)
	}

	if _, err := repo.GetHistory(ctx, "H-01"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected H-01 evicted, got %v", err)
	}

	var count int
	if err := testDB.QueryRow("SELECT COUNT(*) FROM snapshot_history").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 10 {
		t.Errorf("table holds %d rows", count)
	}
}

func TestSnapshotRepository_AppendHistory_DuplicateID(t *testing.T) {
	repo := sqlite.NewSnapshotRepository(setupTestDB(t))
	ctx := context.Background()
	rec := &secondary.HistoryRecord{ID: "H-1", Payload: "{}", SavedAt: "2024-01-01T00:00:00Z"}

	if err := repo.AppendHistory(ctx, rec, 10); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if err := repo.AppendHistory(ctx, rec, 10); err == nil {
		t.Fatal("expected duplicate id to fail")
	}

	records, _ := repo.ListHistory(ctx)
	if len(records) != 1 {
		t.Errorf("failed append left %d entries", len(records))
	}
}

func TestSnapshotRepository_GetHistory(t *testing.T) {
	repo := sqlite.NewSnapshotRepository(setupTestDB(t))
	ctx := context.Background()

	want := &secondary.HistoryRecord{ID: "H-7", Payload: `{"items":[]}`, SavedAt: "2024-05-01T10:00:00Z"}
	if err := repo.AppendHistory(ctx, want, 10); err != nil {
		t.Fatalf("AppendHistory failed: %v", err)
	}

	got, err := repo.GetHistory(ctx, "H-7")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if *got != *want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
