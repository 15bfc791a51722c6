package repository

import (
	"context"
	"encoding/json"

	"github.com/argusdocs/argus/internal/entity"
)

// DatasetConfig is the per-dataset defaults stored alongside records.
// Fetched before each run; currently not substituted into the prompt
// (kept for compatibility with the configuration surface).
type DatasetConfig struct {
	ModelPrompt   string          `json:"model_prompt"`
	ExampleSchema json.RawMessage `json:"example_schema"`
}

// Store is the persisted-record contract shared by the Postgres and SQLite
// backends. Upserts are last-write-wins by record ID; schema bootstrap is
// idempotent.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertRecord(ctx context.Context, rec *entity.ProcessedRecord) error
	GetRecord(ctx context.Context, id string) (*entity.ProcessedRecord, error)
	ListRecords(ctx context.Context, dataset string) ([]*entity.ProcessedRecord, error)

	// FetchConfiguration returns the whole configuration document keyed by
	// dataset name. SeedDatasetConfig adds defaults for a dataset if absent
	// and reports whether it wrote anything.
	FetchConfiguration(ctx context.Context) (map[string]json.RawMessage, error)
	SeedDatasetConfig(ctx context.Context, dataset string, cfg DatasetConfig) (bool, error)

	Ping(ctx context.Context) error
	Close()
}
