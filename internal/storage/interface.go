package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a file does not exist.
var ErrNotFound = errors.New("file not found")

// StorageClient defines the interface for basic storage operations.
// Paths are slash separated and relative to the client's root.
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores data at the specified path, replacing any existing file
	StoreFile(ctx context.Context, filePath string, data []byte) error

	// GetFile retrieves a file; missing files yield ErrNotFound
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists the files under a directory, sorted
	ListDir(ctx context.Context, dirPath string) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)
}
