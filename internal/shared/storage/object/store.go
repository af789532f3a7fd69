package object

import (
	"context"
	"io"
)

// ObjectStore archives delivered artifacts for auditing and operator review.
type ObjectStore interface {
	Save(ctx context.Context, identity string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
