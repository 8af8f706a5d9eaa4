// Package sources opens the files a user uploads. A location is a local
// path, an s3://bucket/key URL, a gs://bucket/object URL or an http(s) URL.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
	ErrInvalidLocation   = errors.New("invalid source location")
)

// Source is an opened upload. Callers must close Body.
type Source struct {
	Name string
	Body io.ReadCloser
}

type Opener interface {
	Open(ctx context.Context, location string) (*Source, error)
}

// Config carries the object-store settings. Empty values fall back to the
// SDKs' default credential chains.
type Config struct {
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	GCSEndpoint  string
	GCSAnonymous bool
}

// Router dispatches a location to the opener for its scheme.
type Router struct {
	local Opener
	web   Opener
	s3    *S3Opener
	gcs   *GCSOpener
}

func NewRouter(cfg Config) *Router {
	return &Router{
		local: LocalOpener{},
		web:   HTTPOpener{Client: &http.Client{}},
		s3:    NewS3Opener(cfg),
		gcs:   NewGCSOpener(cfg),
	}
}

func (r *Router) Open(ctx context.Context, location string) (*Source, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		return r.s3.Open(ctx, location)
	case strings.HasPrefix(location, "gs://"):
		return r.gcs.Open(ctx, location)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return r.web.Open(ctx, location)
	case strings.Contains(location, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, location)
	default:
		return r.local.Open(ctx, location)
	}
}

// Close releases object-store clients that were created lazily.
func (r *Router) Close() error {
	return r.gcs.Close()
}

// LocalOpener reads from the filesystem.
type LocalOpener struct{}

func (LocalOpener) Open(_ context.Context, location string) (*Source, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", location, err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidLocation, location)
	}

	return &Source{Name: filepath.Base(location), Body: f}, nil
}

// splitObjectURL turns "s3://bucket/a/b.pdf" into ("bucket", "a/b.pdf").
func splitObjectURL(location, scheme string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, scheme+"://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

func objectName(key string) string {
	return path.Base(key)
}
