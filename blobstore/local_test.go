package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vfs "github.com/hupe1980/animalcache/internal/fs"
)

func testStoreLifecycle(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	data := []byte("hello world, this is a snapshot blob")
	require.NoError(t, store.Put(ctx, "snapshots/animals-001.snap", data))
	require.NoError(t, store.Put(ctx, "snapshots/animals-002.snap", []byte("second")))
	require.NoError(t, store.Put(ctx, "other.txt", []byte("x")))

	blob, err := store.Open(ctx, "snapshots/animals-001.snap")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	r, err := blob.ReadRange(ctx, 0, 5)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "hello", string(got))
	require.NoError(t, blob.Close())

	all, err := ReadAll(ctx, store, "snapshots/animals-001.snap")
	require.NoError(t, err)
	assert.Equal(t, data, all)

	names, err := store.List(ctx, "snapshots/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snapshots/animals-001.snap", "snapshots/animals-002.snap"}, names)

	// Overwrite.
	require.NoError(t, store.Put(ctx, "other.txt", []byte("replaced")))
	all, err = ReadAll(ctx, store, "other.txt")
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(all))

	require.NoError(t, store.Delete(ctx, "other.txt"))
	require.NoError(t, store.Delete(ctx, "other.txt"))
	_, err = store.Open(ctx, "other.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ReadAll(ctx, store, "other.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestLocalStore_Lifecycle(t *testing.T) {
	dir := t.TempDir()
	testStoreLifecycle(t, NewLocalStore(dir))

	_, err := os.Stat(filepath.Join(dir, "snapshots", "animals-002.snap"))
	assert.NoError(t, err)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "a", data))
	data[0] = 'z'

	got, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestReadAll_Empty(t *testing.T) {
	ctx := context.Background()
	for _, store := range []BlobStore{NewMemoryStore(), NewLocalStore(t.TempDir())} {
		require.NoError(t, store.Put(ctx, "empty", nil))
		got, err := ReadAll(ctx, store, "empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestLocalStore_FailedPutLeavesNoBlob(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		fault vfs.Fault
	}{
		{name: "short write", fault: vfs.Fault{FailAfterBytes: 4}},
		{name: "sync", fault: vfs.Fault{FailAfterBytes: -1, FailOnSync: true}},
		{name: "close", fault: vfs.Fault{FailAfterBytes: -1, FailOnClose: true}},
		{name: "rename", fault: vfs.Fault{FailAfterBytes: -1, FailOnRename: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			ffs := vfs.NewFaultyFS(nil)
			ffs.AddRule(".tmp-", tt.fault)
			store := newLocalStore(dir, ffs)

			err := store.Put(ctx, "snap/animals.snap", []byte("snapshot body"))
			require.ErrorIs(t, err, vfs.ErrInjected)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)

			entries, err := os.ReadDir(filepath.Join(dir, "snap"))
			require.NoError(t, err)
			assert.Empty(t, entries, "temporary file must be removed")
		})
	}
}
