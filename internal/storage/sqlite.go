//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"perceptron/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveConfiguration(ctx context.Context, record model.ConfigurationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	record.UpdatedAt = time.Now().UTC()
	payload, err := EncodeConfiguration(record)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO configurations (name, schema_version, codec_version, updated_at, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			updated_at = excluded.updated_at,
			payload = excluded.payload
	`, record.Name, record.SchemaVersion, record.CodecVersion, record.UpdatedAt.Format(time.RFC3339Nano), payload)
	return err
}

func (s *SQLiteStore) GetConfiguration(ctx context.Context, name string) (model.ConfigurationRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return model.ConfigurationRecord{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM configurations WHERE name = ?`, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ConfigurationRecord{}, false, nil
		}
		return model.ConfigurationRecord{}, false, err
	}

	record, err := DecodeConfiguration(payload)
	if err != nil {
		return model.ConfigurationRecord{}, false, fmt.Errorf("decode configuration %s: %w", name, err)
	}
	return record, true, nil
}

func (s *SQLiteStore) ListConfigurations(ctx context.Context) ([]model.ConfigurationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT name, payload FROM configurations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ConfigurationRecord
	for rows.Next() {
		var (
			name    string
			payload []byte
		)
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, err
		}
		record, err := DecodeConfiguration(payload)
		if err != nil {
			return nil, fmt.Errorf("decode configuration %s: %w", name, err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteConfiguration(ctx context.Context, name string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM configurations WHERE name = ?`, name)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS configurations (
			name TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			updated_at TEXT NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
