// Package blobstore abstracts where collection snapshots live: in memory,
// on the local filesystem, or in S3-compatible object storage.
package blobstore

import (
	"context"
	"os"
	"strings"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore reads and writes whole named blobs. Snapshots are small enough
// to be handled as single byte slices, so there is no streaming surface.
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Put writes a blob atomically, replacing any existing blob of that name.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a whole blob. It returns ErrNotFound if the blob does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	// Prefixes match on path-segment boundaries: "v1" matches "v1/a" and
	// "v1" itself, but not "v10/a".
	List(ctx context.Context, prefix string) ([]string, error)
}

// HasPrefix reports whether a blob name falls under a prefix, matching on
// "/" segment boundaries unless the prefix already ends in a separator.
func HasPrefix(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(name, prefix)
	}
	return name == prefix || strings.HasPrefix(name, prefix+"/")
}
