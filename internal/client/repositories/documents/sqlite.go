package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, position int, doc models.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document[%d]: %w", doc.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO documents (id, position, payload) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET position = excluded.position, payload = excluded.payload
	`, doc.ID, position, string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert document[%d]: %w", doc.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Document, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM documents ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	result := make([]models.Document, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		var d models.Document
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			return nil, fmt.Errorf("failed to decode cached document: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}

// Cache is the transactional view over the documents table used by the
// document store.
type Cache struct {
	db *sql.DB
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

// Replace swaps the cached list for docs, preserving their order.
func (c *Cache) Replace(ctx context.Context, docs []models.Document) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		for i, d := range docs {
			if err := repo.Insert(ctx, i, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Cache) Load(ctx context.Context) ([]models.Document, error) {
	return NewSQLiteRepository(c.db).GetAll(ctx)
}

func (c *Cache) Clear(ctx context.Context) error {
	return NewSQLiteRepository(c.db).DeleteAll(ctx)
}
