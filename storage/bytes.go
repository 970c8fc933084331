package storage

import (
	"bytes"
	"context"
	"io"
)

// ObjectInfo contains minimal metadata about a stored artifact, for callers
// that only need key and size information.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ByteClient provides a []byte-oriented interface for storage operations,
// for callers that work with in-memory artifacts rather than streams.
type ByteClient interface {
	Upload(ctx context.Context, path string, data []byte) error
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

type byteAdapter struct {
	storage Storage
}

// NewByteClient wraps a streaming Storage with []byte convenience methods.
func NewByteClient(s Storage) ByteClient {
	return &byteAdapter{storage: s}
}

func (a *byteAdapter) Upload(ctx context.Context, path string, data []byte) error {
	return a.storage.Upload(ctx, path, bytes.NewReader(data))
}

func (a *byteAdapter) Download(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.storage.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *byteAdapter) Delete(ctx context.Context, path string) error {
	return a.storage.Delete(ctx, path)
}

func (a *byteAdapter) Exists(ctx context.Context, path string) (bool, error) {
	return a.storage.Exists(ctx, path)
}

func (a *byteAdapter) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	files, err := a.storage.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	objects := make([]ObjectInfo, len(files))
	for i, f := range files {
		objects[i] = ObjectInfo{Key: f.Path, Size: f.Size}
	}
	return objects, nil
}
