package storage

import (
	"context"
	"io"
)

// ObjectStorage archives ingested POS export files so a disputed alert can be
// traced back to the exact file that produced the numbers.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
