package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("k", []byte("v1")))

	got, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	// Overwrite replaces, not appends.
	require.NoError(t, store.Set("k", []byte("v2")))
	got, err = store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)

	require.NoError(t, store.Delete("k"))
	_, err = store.Get("k")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is fine.
	require.NoError(t, store.Delete("k"))
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("kept")))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get("k")
	require.NoError(t, err)
	require.Equal(t, []byte("kept"), got)
}

func TestDefaultDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	require.Equal(t, "/tmp/xdg-state/noveltts", DefaultDir())
}
