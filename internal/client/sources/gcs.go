package sources

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOpener streams objects from Google Cloud Storage. The client is built
// on first use.
type GCSOpener struct {
	cfg Config

	mu     sync.Mutex
	client *storage.Client
}

func NewGCSOpener(cfg Config) *GCSOpener {
	return &GCSOpener{cfg: cfg}
}

func (o *GCSOpener) getClient(ctx context.Context) (*storage.Client, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client != nil {
		return o.client, nil
	}

	var opts []option.ClientOption
	if o.cfg.GCSEndpoint != "" {
		opts = append(opts, option.WithEndpoint(o.cfg.GCSEndpoint))
	}
	if o.cfg.GCSAnonymous {
		opts = append(opts, option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	o.client = client
	return client, nil
}

func (o *GCSOpener) Open(ctx context.Context, location string) (*Source, error) {
	bucket, object, err := splitObjectURL(location, "gs")
	if err != nil {
		return nil, err
	}

	client, err := o.getClient(ctx)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GCS object reader for %s: %w", location, err)
	}

	return &Source{Name: objectName(object), Body: r}, nil
}

func (o *GCSOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client == nil {
		return nil
	}
	err := o.client.Close()
	o.client = nil
	return err
}
