package client

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/docproc/internal/client/models"
)

// Client is the backend contract consumed by the stores.
type Client interface {
	ObtainToken(ctx context.Context, username string, password []byte) (*models.TokenPair, error)
	Register(ctx context.Context, username, email string, password []byte) error
	CurrentUser(ctx context.Context) (*models.User, error)
	LoginLegacy(ctx context.Context, email string, password []byte) (*models.LegacyLogin, error)

	ListDocuments(ctx context.Context) ([]models.Document, error)
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	UploadDocument(ctx context.Context, filename string, file io.Reader, title string) (*models.Document, error)
	ProcessDocument(ctx context.Context, id int64) (*models.Document, error)
	UpdateExtractedField(ctx context.Context, id int64, value string, validated bool) (*models.ExtractedField, error)
	Stats(ctx context.Context) (*models.Stats, error)

	Ping(ctx context.Context) error
}

// TokenSource yields the current access token, or "" when logged out. It is
// consulted on every request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Observer receives one call per completed request. status is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}
