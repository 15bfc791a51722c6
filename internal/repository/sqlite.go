package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/entity"
)

// sqliteStore is the embedded backend for local runs and tests. Semantics
// match the Postgres store: JSON documents, last-write-wins upsert by id.
type sqliteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) a SQLite-backed store at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &sqliteStore{db: db, logger: logger}, nil
}

func (s *sqliteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS configurations (
			id TEXT PRIMARY KEY,
			config_data TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.Error("schema bootstrap failed", "error", err)
			return fmt.Errorf("%w: ensure schema: %w", common.ErrPersistence, err)
		}
	}
	return nil
}

func (s *sqliteStore) UpsertRecord(ctx context.Context, rec *entity.ProcessedRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, data) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data`,
		rec.ID, string(data),
	)
	if err != nil {
		s.logger.Error("document upsert failed", "id", rec.ID, "error", err)
		return fmt.Errorf("%w: upsert %s: %w", common.ErrPersistence, rec.ID, err)
	}
	s.logger.Info("document upserted", "id", rec.ID, "bytes", len(data))
	return nil
}

func (s *sqliteStore) GetRecord(ctx context.Context, id string) (*entity.ProcessedRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", common.ErrPersistence, id, err)
	}
	return decodeRecord([]byte(data))
}

func (s *sqliteStore) ListRecords(ctx context.Context, dataset string) ([]*entity.ProcessedRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE id LIKE ? ORDER BY id`, dataset+"/%")
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", common.ErrPersistence, dataset, err)
	}
	defer rows.Close()

	var out []*entity.ProcessedRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", common.ErrPersistence, err)
		}
		rec, err := decodeRecord([]byte(data))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *sqliteStore) FetchConfiguration(ctx context.Context) (map[string]json.RawMessage, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT config_data FROM configurations WHERE id = ?`, configurationID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch configuration: %w", common.ErrPersistence, err)
	}
	return decodeConfiguration([]byte(data))
}

func (s *sqliteStore) SeedDatasetConfig(ctx context.Context, dataset string, cfg DatasetConfig) (bool, error) {
	existing, err := s.FetchConfiguration(ctx)
	if err != nil {
		return false, err
	}
	data, changed, err := mergeDatasetConfig(existing, dataset, cfg)
	if err != nil || !changed {
		return false, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO configurations (id, config_data) VALUES (?, ?)
		 ON CONFLICT (id) DO UPDATE SET config_data = excluded.config_data`,
		configurationID, string(data),
	)
	if err != nil {
		return false, fmt.Errorf("%w: seed configuration: %w", common.ErrPersistence, err)
	}
	s.logger.Info("dataset configuration seeded", "dataset", dataset)
	return true, nil
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close sqlite store", "error", err)
	}
}
