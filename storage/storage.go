package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo contains metadata about a stored artifact.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage defines the interface for artifact storage operations.
type Storage interface {
	// Upload writes data from reader to the given path.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download returns a reader for the artifact at the given path.
	// The caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the artifact at the given path.
	// Returns nil if the artifact does not exist.
	Delete(ctx context.Context, path string) error

	// Exists checks whether an artifact exists at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a URL for accessing the artifact at the given path.
	URL(ctx context.Context, path string) (string, error)

	// List returns metadata for all artifacts whose path starts with prefix.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
