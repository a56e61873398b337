package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage persists incident photos. Keys are slash separated relative
// paths such as "incidents/12/<uuid>.jpg".
type Storage interface {
	// SaveFile writes reader under key and returns the number of bytes written
	SaveFile(ctx context.Context, key string, reader io.Reader) (int64, error)

	// ReadFile opens key for reading; the caller closes it
	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (bool, int64, error)

	DeleteFile(ctx context.Context, key string) error

	// URL returns the public download URL for key
	URL(key string) string

	// KeyFromURL reverses URL for URLs issued by this storage
	KeyFromURL(url string) (string, bool)
}
