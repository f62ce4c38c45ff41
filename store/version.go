package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/filterq/blobstore"
)

// VersionPointer records which snapshot generation is current. The S3 blob
// store pairs it with DynamoDB conditional writes; tests use the in-memory
// implementation below.
type VersionPointer interface {
	// Commit atomically records a generation. Committing a version that
	// already exists must fail, so racing writers cannot both win.
	Commit(ctx context.Context, version uint64, manifest []byte) error

	// Latest returns the highest committed version and its manifest, or
	// (0, nil, nil) when nothing has been committed yet.
	Latest(ctx context.Context) (uint64, []byte, error)
}

// ErrNoSnapshot is returned by RestoreLatest when no generation has been
// committed.
var ErrNoSnapshot = errors.New("no committed snapshot")

// ErrVersionExists is returned by MemoryVersionPointer on a commit race.
var ErrVersionExists = errors.New("version already committed")

// manifest lists the blobs belonging to one snapshot generation.
type manifest struct {
	Version uint64   `json:"version"`
	Blobs   []string `json:"blobs"`
}

// SnapshotVersioned writes a new snapshot generation under "v<n>/" and then
// commits the generation through the version pointer. Readers following the
// pointer never observe a half-written generation: blobs are fully uploaded
// before the commit, and an existing generation is never overwritten.
func (r *Repository) SnapshotVersioned(ctx context.Context, bs blobstore.BlobStore, vp VersionPointer, opts ...SnapshotOption) (uint64, error) {
	latest, _, err := vp.Latest(ctx)
	if err != nil {
		return 0, err
	}
	version := latest + 1

	o := applySnapshotOptions(opts)
	prefix := fmt.Sprintf("v%d", version)
	if o.Prefix != "" {
		prefix = o.Prefix + "/" + prefix
	}

	snapOpts := append(append([]SnapshotOption{}, opts...), WithPrefix(prefix))
	if err := r.Snapshot(ctx, bs, snapOpts...); err != nil {
		return 0, err
	}

	m := manifest{Version: version}
	for _, name := range r.Collections() {
		m.Blobs = append(m.Blobs, prefix+"/"+name+snapshotSuffix)
	}
	data, err := o.Codec.Marshal(m)
	if err != nil {
		return 0, err
	}
	if err := vp.Commit(ctx, version, data); err != nil {
		return 0, err
	}
	return version, nil
}

// RestoreLatest loads the generation the version pointer names.
func (r *Repository) RestoreLatest(ctx context.Context, bs blobstore.BlobStore, vp VersionPointer, opts ...SnapshotOption) error {
	version, data, err := vp.Latest(ctx)
	if err != nil {
		return err
	}
	if version == 0 {
		return ErrNoSnapshot
	}

	o := applySnapshotOptions(opts)
	var m manifest
	if err := o.Codec.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	prefix := fmt.Sprintf("v%d", m.Version)
	if o.Prefix != "" {
		prefix = o.Prefix + "/" + prefix
	}
	return r.restoreBlobs(ctx, bs, prefix, m.Blobs)
}

// MemoryVersionPointer is an in-memory VersionPointer for tests.
type MemoryVersionPointer struct {
	mu        sync.Mutex
	manifests map[uint64][]byte
	latest    uint64
}

// NewMemoryVersionPointer creates an empty in-memory version pointer.
func NewMemoryVersionPointer() *MemoryVersionPointer {
	return &MemoryVersionPointer{manifests: make(map[uint64][]byte)}
}

// Commit records a generation; committing an existing version fails.
func (m *MemoryVersionPointer) Commit(_ context.Context, version uint64, manifest []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.manifests[version]; ok {
		return ErrVersionExists
	}
	data := make([]byte, len(manifest))
	copy(data, manifest)
	m.manifests[version] = data
	if version > m.latest {
		m.latest = version
	}
	return nil
}

// Latest returns the highest committed version, or (0, nil, nil) when empty.
func (m *MemoryVersionPointer) Latest(_ context.Context) (uint64, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.latest == 0 {
		return 0, nil, nil
	}
	return m.latest, m.manifests[m.latest], nil
}
