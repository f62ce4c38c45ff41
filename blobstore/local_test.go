package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "snap/books.snap", []byte("books")))
	require.NoError(t, s.Put(ctx, "snap/authors.snap", []byte("authors")))
	require.NoError(t, s.Put(ctx, "other.snap", []byte("other")))

	data, err := s.Get(ctx, "snap/books.snap")
	require.NoError(t, err)
	assert.Equal(t, []byte("books"), data)

	// Put replaces atomically.
	require.NoError(t, s.Put(ctx, "snap/books.snap", []byte("books-v2")))
	data, err = s.Get(ctx, "snap/books.snap")
	require.NoError(t, err)
	assert.Equal(t, []byte("books-v2"), data)

	names, err := s.List(ctx, "snap/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snap/authors.snap", "snap/books.snap"}, names)

	require.NoError(t, s.Delete(ctx, "snap/books.snap"))
	_, err = s.Get(ctx, "snap/books.snap")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "snap/books.snap")) // idempotent
}

func TestLocalStoreListPrefixBoundary(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "v1/books.snap", []byte("1")))
	require.NoError(t, s.Put(ctx, "v10/books.snap", []byte("10")))

	names, err := s.List(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1/books.snap"}, names)
}

func TestLocalStoreCreatesRoot(t *testing.T) {
	dir := t.TempDir() + "/nested/root"

	s, err := NewLocalStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), "blob", []byte("x")))
}
