package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, ok := store.Get()
	assert.False(t, ok, "fresh store should hold no token")

	require.NoError(t, store.Set("token-abc"))

	token, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "token-abc", token)

	// A second store over the same directory sees the persisted token.
	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	token, ok = reopened.Get()
	require.True(t, ok)
	assert.Equal(t, "token-abc", token)
}

func TestFileStoreSetOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("first"))
	require.NoError(t, store.Set("second"))

	token, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "second", token)
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Clear(), "clearing an absent token is not an error")

	require.NoError(t, store.Set("token-abc"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Get()
	assert.False(t, ok)

	_, err = os.Stat(filepath.Join(dir, TokenKey))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreIgnoresBlankFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, TokenKey), []byte("  \n"), 0600))

	_, ok := store.Get()
	assert.False(t, ok, "whitespace-only file means anonymous")
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()

	_, ok := store.Get()
	assert.False(t, ok)

	require.NoError(t, store.Set("tok"))
	token, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "tok", token)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	assert.False(t, ok)
	require.NoError(t, store.Clear())
}
