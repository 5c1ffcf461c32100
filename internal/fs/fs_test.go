package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	lfs := LocalFS{}

	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	f, err := lfs.CreateTemp(dir, ".tmp-*")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	target := filepath.Join(dir, "final")
	require.NoError(t, lfs.Rename(f.Name(), target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(target))
	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS(t *testing.T) {
	dir := t.TempDir()

	t.Run("write limit", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("limited", Fault{FailAfterBytes: 3})

		f, err := ffs.CreateTemp(dir, "limited-*")
		require.NoError(t, err)
		defer f.Close()

		n, err := f.Write([]byte("ab"))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = f.Write([]byte("cde"))
		assert.ErrorIs(t, err, ErrInjected)
		assert.Equal(t, 1, n)
	})

	t.Run("sync and close", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true})

		f, err := ffs.CreateTemp(dir, "sync-*")
		require.NoError(t, err)
		assert.ErrorIs(t, f.Sync(), ErrInjected)
		assert.ErrorIs(t, f.Close(), ErrInjected)
	})

	t.Run("rename with custom error", func(t *testing.T) {
		boom := os.ErrPermission
		ffs := NewFaultyFS(nil)
		ffs.AddRule("move", Fault{FailAfterBytes: -1, FailOnRename: true, Err: boom})

		f, err := ffs.CreateTemp(dir, "move-*")
		require.NoError(t, err)
		require.NoError(t, f.Close())
		assert.ErrorIs(t, ffs.Rename(f.Name(), filepath.Join(dir, "moved")), boom)
	})

	t.Run("unmatched files pass through", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("nomatch", Fault{FailOnSync: true})

		f, err := ffs.CreateTemp(dir, "plain-*")
		require.NoError(t, err)
		assert.NoError(t, f.Sync())
		assert.NoError(t, f.Close())
	})
}
