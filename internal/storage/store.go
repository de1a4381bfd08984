// Package storage is the local durable key-value blob namespace the
// persistence adapter writes into.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store maps string keys to opaque byte blobs.
type Store interface {
	// Get returns the blob under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous blob.
	Set(ctx context.Context, key string, value []byte) error

	Close() error
}
