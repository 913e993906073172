//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreConfigurationRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "perceptron.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.SaveConfiguration(ctx, NewRecord("and", -1.5, []float64{1, 1})); err != nil {
		t.Fatalf("save configuration: %v", err)
	}
	if err := store.SaveConfiguration(ctx, NewRecord("or", -0.5, []float64{1, 1})); err != nil {
		t.Fatalf("save configuration: %v", err)
	}

	record, ok, err := store.GetConfiguration(ctx, "and")
	if err != nil {
		t.Fatalf("get configuration: %v", err)
	}
	if !ok {
		t.Fatal("expected configuration and")
	}
	if record.Bias != -1.5 || len(record.Weights) != 2 || record.UpdatedAt.IsZero() {
		t.Fatalf("unexpected record: %+v", record)
	}

	if err := store.SaveConfiguration(ctx, NewRecord("and", -1, []float64{2, 2})); err != nil {
		t.Fatalf("overwrite configuration: %v", err)
	}
	record, _, _ = store.GetConfiguration(ctx, "and")
	if record.Bias != -1 || record.Weights[0] != 2 {
		t.Fatalf("expected overwritten record, got: %+v", record)
	}

	records, err := store.ListConfigurations(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].Name != "and" || records[1].Name != "or" {
		t.Fatalf("unexpected records: %+v", records)
	}

	if err := store.DeleteConfiguration(ctx, "or"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := store.GetConfiguration(ctx, "or"); err != nil || ok {
		t.Fatalf("expected or to be deleted: ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "perceptron.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init first: %v", err)
	}
	if err := first.SaveConfiguration(ctx, NewRecord("and", -1.5, []float64{1, 1})); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("init second: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})
	if _, ok, err := second.GetConfiguration(ctx, "and"); err != nil || !ok {
		t.Fatalf("expected persisted record: ok=%v err=%v", ok, err)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "perceptron.db"))
	if _, _, err := store.GetConfiguration(context.Background(), "and"); err == nil {
		t.Fatal("expected not initialized error")
	}
}
