// Package storage persists opaque values under string keys. The ledger keeps
// its whole transaction list under a single key.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("storage closed")

// KV is a persistent key-value store.
type KV interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
