// Package storage holds the object stores that keep uploaded bytes. Rows in
// the database address objects by an opaque key, never by a client path.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore is implemented by DiskStore and S3Store.
type ObjectStore interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
