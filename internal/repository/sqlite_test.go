package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/entity"
)

func setupTestStore(t *testing.T) Store {
	t.Helper()
	store, err := OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(store.Close)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() failed: %v", err)
	}
	return store
}

func testRecord(id string) *entity.ProcessedRecord {
	return &entity.ProcessedRecord{
		ID: id,
		Properties: entity.Properties{
			BlobName:         id,
			RequestTimestamp: "2026-03-14T09:30:00Z",
			BlobSize:         100,
			NumPages:         1,
			TotalTimeSeconds: 1.5,
		},
		State: entity.State{FileLanded: true},
		ExtractedData: entity.ExtractedData{
			OCROutput:           "note",
			GPTExtractionOutput: map[string]any{"corrected_schema": map[string]any{}},
		},
	}
}

func TestUpsertRecordReplacesExisting(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rec := testRecord("ds/a.pdf")
	if err := store.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("UpsertRecord() failed: %v", err)
	}

	rec.Properties.NumPages = 7
	rec.ExtractedData.OCROutput = "updated"
	if err := store.UpsertRecord(ctx, rec); err != nil {
		t.Fatalf("UpsertRecord() update failed: %v", err)
	}

	got, err := store.GetRecord(ctx, "ds/a.pdf")
	if err != nil {
		t.Fatalf("GetRecord() failed: %v", err)
	}
	if got.Properties.NumPages != 7 {
		t.Errorf("NumPages = %d, want 7 (record not replaced)", got.Properties.NumPages)
	}
	if got.ExtractedData.OCROutput != "updated" {
		t.Errorf("OCROutput = %q, want %q", got.ExtractedData.OCROutput, "updated")
	}

	recs, err := store.ListRecords(ctx, "ds")
	if err != nil {
		t.Fatalf("ListRecords() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("got %d records after double upsert, want 1", len(recs))
	}
}

func TestGetRecordNotFound(t *testing.T) {
	store := setupTestStore(t)
	_, err := store.GetRecord(context.Background(), "ds/missing.pdf")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("GetRecord() error = %v, want ErrNotFound", err)
	}
}

func TestListRecordsFiltersByDataset(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"alpha/a.pdf", "alpha/b.pdf", "beta/a.pdf"} {
		if err := store.UpsertRecord(ctx, testRecord(id)); err != nil {
			t.Fatalf("UpsertRecord(%s) failed: %v", id, err)
		}
	}

	recs, err := store.ListRecords(ctx, "alpha")
	if err != nil {
		t.Fatalf("ListRecords() failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records for alpha, want 2", len(recs))
	}
	for _, r := range recs {
		if r.ID != "alpha/a.pdf" && r.ID != "alpha/b.pdf" {
			t.Errorf("unexpected record %q in dataset alpha", r.ID)
		}
	}
}

func TestSeedDatasetConfigDoesNotOverwrite(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	seeded, err := store.SeedDatasetConfig(ctx, "ds", DatasetConfig{
		ModelPrompt:   "Extract all data.",
		ExampleSchema: json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("SeedDatasetConfig() failed: %v", err)
	}
	if !seeded {
		t.Fatal("first seed must report seeded=true")
	}

	seeded, err = store.SeedDatasetConfig(ctx, "ds", DatasetConfig{
		ModelPrompt:   "Different prompt.",
		ExampleSchema: json.RawMessage(`{"x": 1}`),
	})
	if err != nil {
		t.Fatalf("SeedDatasetConfig() second call failed: %v", err)
	}
	if seeded {
		t.Error("second seed must not overwrite existing config")
	}

	cfgs, err := store.FetchConfiguration(ctx)
	if err != nil {
		t.Fatalf("FetchConfiguration() failed: %v", err)
	}
	var got DatasetConfig
	if err := json.Unmarshal(cfgs["ds"], &got); err != nil {
		t.Fatalf("decode dataset config: %v", err)
	}
	if got.ModelPrompt != "Extract all data." {
		t.Errorf("ModelPrompt = %q, original config was overwritten", got.ModelPrompt)
	}
}

func TestFetchConfigurationEmpty(t *testing.T) {
	store := setupTestStore(t)
	cfgs, err := store.FetchConfiguration(context.Background())
	if err != nil {
		t.Fatalf("FetchConfiguration() failed: %v", err)
	}
	if len(cfgs) != 0 {
		t.Errorf("got %d entries from empty store, want 0", len(cfgs))
	}
}
