package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/contract-planner/internal/model"
)

// PostgresStore keeps the document in the document_store table.
type PostgresStore struct {
	db  *gorm.DB
	key string
}

func NewPostgresStore(db *gorm.DB, key string) *PostgresStore {
	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{db: db, key: key}
}

func (s *PostgresStore) Load(ctx context.Context) (*model.Document, error) {
	var rows []struct {
		Value []byte
	}
	err := s.db.WithContext(ctx).Raw(`
		SELECT value::text AS value
		FROM document_store
		WHERE key = ?
		LIMIT 1
	`, s.key).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	if len(rows) == 0 {
		return model.NewDocument(), nil
	}
	return decodeDocument(rows[0].Value)
}

func (s *PostgresStore) Save(ctx context.Context, doc *model.Document) error {
	payload, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Exec(`
		INSERT INTO document_store (key, value, updated_at)
		VALUES (?, ?::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.key, string(payload)).Error
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
