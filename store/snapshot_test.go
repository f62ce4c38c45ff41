package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/filterq/blobstore"
	"github.com/hupe1980/filterq/codec"
	"github.com/hupe1980/filterq/filter"
)

func seedRepository(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository()
	r.Collection("books").Insert(filter.Fields{
		"title": filter.String("The Great Gatsby"), "pages": filter.Number(218),
	})
	r.Collection("books").Insert(filter.Fields{
		"title": filter.String("Engineering"), "pages": filter.Number(640),
	})
	r.Collection("authors").Insert(filter.Fields{
		"name": filter.String("John Doe"), "active": filter.Bool(true),
	})
	return r
}

func assertRepositoryEqual(t *testing.T, want, got *Repository) {
	t.Helper()
	require.Equal(t, want.Collections(), got.Collections())
	for _, name := range want.Collections() {
		assert.Equal(t, want.Collection(name).Find(nil), got.Collection(name).Find(nil), "collection %s", name)
	}
}

func TestSnapshotRestore(t *testing.T) {
	compressions := []string{CompressionNone, CompressionZstd, CompressionLZ4}

	for _, comp := range compressions {
		t.Run(comp, func(t *testing.T) {
			ctx := context.Background()
			bs := blobstore.NewMemoryStore()
			r := seedRepository(t)

			require.NoError(t, r.Snapshot(ctx, bs, WithCompression(comp)))

			names, err := bs.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"authors.snap", "books.snap"}, names)

			restored := NewRepository()
			require.NoError(t, restored.Restore(ctx, bs))
			assertRepositoryEqual(t, r, restored)

			// IDs continue after the highest restored ID.
			id := restored.Collection("books").Insert(filter.Fields{"title": filter.String("new")})
			assert.Equal(t, uint32(3), id)
		})
	}
}

func TestSnapshotRestoreWithPrefixAndCodec(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	r := seedRepository(t)

	require.NoError(t, r.Snapshot(ctx, bs,
		WithPrefix("backups"),
		WithSnapshotCodec(codec.JSON{}),
		WithCompression(CompressionNone),
	))

	names, err := bs.List(ctx, "backups/")
	require.NoError(t, err)
	assert.Len(t, names, 2)

	// Blobs are self-describing: restore needs only the prefix.
	restored := NewRepository()
	require.NoError(t, restored.Restore(ctx, bs, WithPrefix("backups")))
	assertRepositoryEqual(t, r, restored)
}

func TestSnapshotIndexRebuiltAfterRestore(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	r := seedRepository(t)

	require.NoError(t, r.Snapshot(ctx, bs))

	restored := NewRepository()
	require.NoError(t, restored.Restore(ctx, bs))

	matches := restored.Find("books", mustCompile(t, `title:"Engineering"`))
	require.Len(t, matches, 1)
	assert.Equal(t, filter.Number(640), matches[0].Fields["pages"])
}

func TestRestoreRejectsMalformedBlob(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, bs.Put(ctx, "books.snap", []byte("not a snapshot")))

	err := NewRepository().Restore(ctx, bs)
	assert.ErrorIs(t, err, ErrBadSnapshot)
}

func TestSnapshotVersioned(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	vp := NewMemoryVersionPointer()
	r := seedRepository(t)

	v1, err := r.SnapshotVersioned(ctx, bs, vp)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1)

	// Mutate and snapshot again; a new generation is created.
	r.Collection("books").Insert(filter.Fields{"title": filter.String("Third")})
	v2, err := r.SnapshotVersioned(ctx, bs, vp)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v2)

	restored := NewRepository()
	require.NoError(t, restored.RestoreLatest(ctx, bs, vp))
	assertRepositoryEqual(t, r, restored)

	// Both generations remain on the blob store.
	names, err := bs.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "v1/books.snap")
	assert.Contains(t, names, "v2/books.snap")
}

func TestRestoreLatestWithoutSnapshot(t *testing.T) {
	ctx := context.Background()

	err := NewRepository().RestoreLatest(ctx, blobstore.NewMemoryStore(), NewMemoryVersionPointer())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestMemoryVersionPointerCommitRace(t *testing.T) {
	ctx := context.Background()
	vp := NewMemoryVersionPointer()

	require.NoError(t, vp.Commit(ctx, 1, []byte("a")))
	assert.ErrorIs(t, vp.Commit(ctx, 1, []byte("b")), ErrVersionExists)

	v, manifest, err := vp.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, []byte("a"), manifest)
}
