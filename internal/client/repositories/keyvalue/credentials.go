package keyvalue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/docproc/internal/dbx"
)

// Storage keys for the session tokens.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
)

// CredentialStore keeps the access/refresh token pair in the storage table.
// The HTTP client reads the access token from here on every request.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

func (c *CredentialStore) AccessToken(ctx context.Context) (string, error) {
	return NewSQLiteRepository(c.db).Get(ctx, KeyToken)
}

func (c *CredentialStore) RefreshToken(ctx context.Context) (string, error) {
	return NewSQLiteRepository(c.db).Get(ctx, KeyRefreshToken)
}

// Save writes both tokens atomically. An empty refresh token removes any
// previously stored one.
func (c *CredentialStore) Save(ctx context.Context, access, refresh string) error {
	err := dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyToken, access); err != nil {
			return err
		}
		if refresh == "" {
			return repo.Delete(ctx, KeyRefreshToken)
		}
		return repo.Set(ctx, KeyRefreshToken, refresh)
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (c *CredentialStore) Clear(ctx context.Context) error {
	if err := NewSQLiteRepository(c.db).Delete(ctx, KeyToken, KeyRefreshToken); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
