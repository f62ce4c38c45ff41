package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "a/one", []byte("1")))
	require.NoError(t, s.Put(ctx, "a/two", []byte("2")))
	require.NoError(t, s.Put(ctx, "b/three", []byte("3")))

	data, err := s.Get(ctx, "a/one")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), data)

	names, err := s.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/one", "a/two"}, names)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.Delete(ctx, "a/one"))
	_, err = s.Get(ctx, "a/one")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a/one")) // idempotent
}

func TestMemoryStoreListPrefixBoundary(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "v1/books.snap", []byte("1")))
	require.NoError(t, s.Put(ctx, "v10/books.snap", []byte("10")))
	require.NoError(t, s.Put(ctx, "v1", []byte("bare")))

	names, err := s.List(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v1/books.snap"}, names)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, s.Put(ctx, "blob", data))
	data[0] = 'x'

	stored, err := s.Get(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), stored)

	stored[0] = 'y'
	again, err := s.Get(ctx, "blob")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
