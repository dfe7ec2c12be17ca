package storage

import (
	"context"
	"io"
)

// Storage is the minimal interface for file storage backends. Save a
// file, delete a file, get its public URL.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
