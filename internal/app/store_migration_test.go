package app

import (
	"context"
	"testing"

	"github.com/example/till/internal/ports/secondary"
)

const validPayload = `{"storeName":"TARGET","storeLocation":"","receiptDate":"2024-03-07","items":[{"name":"Milk","price":"3.50"}]}`

func seededSource(t *testing.T) *mockSnapshotRepository {
	t.Helper()
	ctx := context.Background()
	src := newMockSnapshotRepository()
	if err := src.SaveCurrent(ctx, &secondary.SnapshotRecord{Payload: validPayload}); err != nil {
		t.Fatal(err)
	}
	for _, rec := range []*secondary.HistoryRecord{
		{ID: "H-1", Payload: validPayload, SavedAt: "2024-03-01T00:00:00Z"},
		{ID: "H-2", Payload: "corrupt", SavedAt: "2024-03-02T00:00:00Z"},
		{ID: "H-3", Payload: validPayload, SavedAt: "2024-03-03T00:00:00Z"},
	} {
		if err := src.AppendHistory(ctx, rec, 10); err != nil {
			t.Fatal(err)
		}
	}
	return src
}

func TestMigrateSnapshots(t *testing.T) {
	ctx := context.Background()
	src := seededSource(t)
	dst := newMockSnapshotRepository()

	result, err := MigrateSnapshots(ctx, src, dst, false)
	if err != nil {
		t.Fatalf("MigrateSnapshots failed: %v", err)
	}

	if !result.Current {
		t.Error("expected current snapshot copied")
	}
	if len(result.Copied) != 2 || result.Copied[0] != "H-1" || result.Copied[1] != "H-3" {
		t.Errorf("copied = %v, want [H-1 H-3]", result.Copied)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "H-2" {
		t.Errorf("skipped = %v, want [H-2]", result.Skipped)
	}

	entries, _ := dst.ListHistory(ctx)
	if len(entries) != 2 || entries[0].ID != "H-3" {
		t.Errorf("destination history order wrong: %+v", entries)
	}
	if dst.current == nil || dst.current.Payload != validPayload {
		t.Error("destination current snapshot not written")
	}
}

func TestMigrateSnapshots_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	src := seededSource(t)
	dst := newMockSnapshotRepository()

	if _, err := MigrateSnapshots(ctx, src, dst, false); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	result, err := MigrateSnapshots(ctx, src, dst, false)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(result.Copied) != 0 {
		t.Errorf("second run copied %v", result.Copied)
	}
	if len(dst.history) != 2 {
		t.Errorf("destination holds %d entries, want 2", len(dst.history))
	}
}

func TestMigrateSnapshots_DryRun(t *testing.T) {
	ctx := context.Background()
	src := seededSource(t)
	dst := newMockSnapshotRepository()

	result, err := MigrateSnapshots(ctx, src, dst, true)
	if err != nil {
		t.Fatalf("MigrateSnapshots failed: %v", err)
	}
	if len(result.Copied) != 2 {
		t.Errorf("dry run should report 2 copies, got %v", result.Copied)
	}
	if dst.current != nil || len(dst.history) != 0 {
		t.Error("dry run wrote to the destination")
	}
}

func TestMigrateSnapshots_EmptySource(t *testing.T) {
	result, err := MigrateSnapshots(context.Background(), newMockSnapshotRepository(), newMockSnapshotRepository(), false)
	if err != nil {
		t.Fatalf("MigrateSnapshots failed: %v", err)
	}
	if result.Current || len(result.Copied) != 0 {
		t.Errorf("expected nothing copied, got %+v", result)
	}
}
