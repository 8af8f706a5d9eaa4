// Package keyvalue persists small string values (session tokens) in the
// client's SQLite "storage" table.
package keyvalue

import "context"

// Repository is a durable string map. Get returns ("", nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
}
