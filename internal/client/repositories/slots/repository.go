// Package slots stores opaque values under string keys in the client's
// SQLite database.
package slots

import "context"

type Repository interface {
	ReadSlot(ctx context.Context, key string) ([]byte, error)
	WriteSlot(ctx context.Context, key string, value []byte) error
	DeleteSlot(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
