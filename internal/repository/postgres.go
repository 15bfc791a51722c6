package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argusdocs/argus/internal/common"
	"github.com/argusdocs/argus/internal/entity"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore wraps a pgx pool as a document Store.
func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresStore{pool: pool, logger: logger}
}

func (s *postgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS configurations (
			id TEXT PRIMARY KEY,
			config_data JSONB NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			s.logger.Error("schema bootstrap failed", "error", err)
			return fmt.Errorf("%w: ensure schema: %w", common.ErrPersistence, err)
		}
	}
	return nil
}

func (s *postgresStore) UpsertRecord(ctx context.Context, rec *entity.ProcessedRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		rec.ID, data,
	)
	if err != nil {
		s.logger.Error("document upsert failed", "id", rec.ID, "error", err)
		return fmt.Errorf("%w: upsert %s: %w", common.ErrPersistence, rec.ID, err)
	}
	s.logger.Info("document upserted", "id", rec.ID, "bytes", len(data))
	return nil
}

func (s *postgresStore) GetRecord(ctx context.Context, id string) (*entity.ProcessedRecord, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM documents WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", common.ErrPersistence, id, err)
	}
	return decodeRecord(data)
}

func (s *postgresStore) ListRecords(ctx context.Context, dataset string) ([]*entity.ProcessedRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM documents WHERE id LIKE $1 ORDER BY id`, dataset+"/%")
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", common.ErrPersistence, dataset, err)
	}
	defer rows.Close()

	var out []*entity.ProcessedRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", common.ErrPersistence, err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *postgresStore) FetchConfiguration(ctx context.Context) (map[string]json.RawMessage, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT config_data FROM configurations WHERE id = $1`, configurationID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch configuration: %w", common.ErrPersistence, err)
	}
	return decodeConfiguration(data)
}

func (s *postgresStore) SeedDatasetConfig(ctx context.Context, dataset string, cfg DatasetConfig) (bool, error) {
	existing, err := s.FetchConfiguration(ctx)
	if err != nil {
		return false, err
	}
	data, changed, err := mergeDatasetConfig(existing, dataset, cfg)
	if err != nil || !changed {
		return false, err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO configurations (id, config_data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET config_data = EXCLUDED.config_data`,
		configurationID, data,
	)
	if err != nil {
		return false, fmt.Errorf("%w: seed configuration: %w", common.ErrPersistence, err)
	}
	s.logger.Info("dataset configuration seeded", "dataset", dataset)
	return true, nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) Close() {
	s.pool.Close()
}
