package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreConfigurationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	weights := []float64{1, 1}
	if err := store.SaveConfiguration(ctx, NewRecord("and", -1.5, weights)); err != nil {
		t.Fatalf("save configuration: %v", err)
	}
	weights[0] = 42

	record, ok, err := store.GetConfiguration(ctx, "and")
	if err != nil {
		t.Fatalf("get configuration: %v", err)
	}
	if !ok {
		t.Fatal("expected configuration and")
	}
	if record.Bias != -1.5 || len(record.Weights) != 2 || record.Weights[0] != 1 {
		t.Fatalf("unexpected record: %+v", record)
	}
	if !record.UpdatedAt.Equal(fixed) {
		t.Fatalf("unexpected updated_at: %s", record.UpdatedAt)
	}

	record.Weights[1] = 42
	again, _, _ := store.GetConfiguration(ctx, "and")
	if again.Weights[1] != 1 {
		t.Fatal("stored weights were mutated through a returned record")
	}
}

func TestMemoryStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, name := range []string{"or", "and", "nand"} {
		if err := store.SaveConfiguration(ctx, NewRecord(name, 0, []float64{1})); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	records, err := store.ListConfigurations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 || records[0].Name != "and" || records[1].Name != "nand" || records[2].Name != "or" {
		t.Fatalf("unexpected list order: %+v", records)
	}

	if err := store.DeleteConfiguration(ctx, "nand"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.GetConfiguration(ctx, "nand"); ok {
		t.Fatal("expected nand to be deleted")
	}
}

func TestMemoryStoreRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.SaveConfiguration(ctx, NewRecord("and", 0, []float64{1})); err == nil {
		t.Fatal("expected error before init")
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveConfiguration(ctx, NewRecord("", 0, []float64{1})); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for empty name, got: %v", err)
	}
	if err := store.SaveConfiguration(ctx, NewRecord("empty", 0, nil)); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for empty weights, got: %v", err)
	}
	stale := NewRecord("stale", 0, []float64{1})
	stale.SchemaVersion = 0
	if err := store.SaveConfiguration(ctx, stale); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}
