package documents

import (
	"context"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

// Repository is the row-level access used by Cache.
type Repository interface {
	Insert(ctx context.Context, position int, doc models.Document) error
	GetAll(ctx context.Context) ([]models.Document, error)
	DeleteAll(ctx context.Context) error
}
