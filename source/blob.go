package source

import (
	"context"
	"fmt"

	"github.com/hupe1980/animalcache/blobstore"
	"github.com/hupe1980/animalcache/internal/mmap"
	"github.com/hupe1980/animalcache/model"
	"github.com/hupe1980/animalcache/snapshot"
)

// BlobSource reads a snapshot blob on every FetchAll.
type BlobSource struct {
	store blobstore.BlobStore
	name  string
}

// NewBlobSource creates a source for the snapshot stored under name.
func NewBlobSource(store blobstore.BlobStore, name string) *BlobSource {
	return &BlobSource{store: store, name: name}
}

// FetchAll downloads and decodes the snapshot.
func (s *BlobSource) FetchAll(ctx context.Context, projection model.Projection) ([]model.Record, error) {
	data, err := blobstore.ReadAll(ctx, s.store, s.name)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", s.name, err)
	}
	records, _, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %q: %w", s.name, err)
	}
	return project(records, projection), nil
}

// FileSource reads a local snapshot file through a read-only memory map.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the snapshot file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchAll maps and decodes the snapshot file.
func (s *FileSource) FetchAll(ctx context.Context, projection model.Projection) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := mmap.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	_ = m.Advise(mmap.AccessSequential)

	records, _, err := snapshot.Decode(m.Bytes())
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return project(records, projection), nil
}

// Publish fetches every record from src and writes them as a snapshot blob.
// It returns the number of records written.
func Publish(ctx context.Context, src Source, store blobstore.BlobStore, name string, opts ...snapshot.Option) (int, error) {
	records, err := src.FetchAll(ctx, nil)
	if err != nil {
		return 0, err
	}
	data, err := snapshot.Encode(records, opts...)
	if err != nil {
		return 0, err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return 0, fmt.Errorf("write snapshot %q: %w", name, err)
	}
	return len(records), nil
}
