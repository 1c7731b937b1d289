package storage

import (
	"context"
	"errors"
	"testing"

	"walrus-extend/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "blobs/testnet/abc")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	require.NoError(t, s.Save(ctx, "blobs/testnet/abc", []byte("data")))
	assert.True(t, s.Exists(ctx, "blobs/testnet/abc"))
	data, err := s.Get(ctx, "blobs/testnet/abc")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, s.Save(ctx, "blobs/testnet/abc", []byte("newer")))
	data, _ = s.Get(ctx, "blobs/testnet/abc")
	assert.Equal(t, "newer", string(data))

	require.NoError(t, s.Delete(ctx, "blobs/testnet/abc"))
	require.NoError(t, s.Delete(ctx, "blobs/testnet/abc"), "deleting twice is fine")
	assert.False(t, s.Exists(ctx, "blobs/testnet/abc"))
	assert.Equal(t, "local", s.Kind())
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Save(context.Background(), "../outside", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.False(t, s.Exists(context.Background(), "../outside"))
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(conf.StorageConfig{Type: "ftp"})
	assert.ErrorIs(t, err, ErrInvalid)

	s, err := NewStorage(conf.StorageConfig{Type: "local", Local: conf.LocalStorageConfig{BasePath: t.TempDir()}})
	require.NoError(t, err)
	assert.Equal(t, "local", s.Kind())
}
