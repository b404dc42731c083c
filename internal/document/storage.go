package document

import (
	"context"
	"io"
)

// StorageDriver defines how we interact with the binary storage
type StorageDriver interface {
	// Save writes the content to the storage under the given key
	Save(ctx context.Context, key string, body io.Reader, contentType string) error

	// Get returns a ReadCloser to stream the content back and its content type
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Delete removes the content
	Delete(ctx context.Context, key string) error
}
