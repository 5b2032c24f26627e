package domain

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a KeyValueStore when nothing is stored
// under the requested key.
var ErrKeyNotFound = errors.New("store: key not found")

// KeyValueStore is the durable string store behind the persistence gateway.
// Values are opaque JSON documents.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}
