package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/filterq/blobstore"
	"github.com/hupe1980/filterq/codec"
	"github.com/hupe1980/filterq/filter"
)

// snapshotMagic prefixes every snapshot blob. Bump the trailing digit on
// incompatible layout changes.
const snapshotMagic = "FQSNAP1\n"

const snapshotSuffix = ".snap"

// Supported compression names. Snapshot headers record the name, so blobs
// are self-describing.
const (
	CompressionNone = "none"
	CompressionZstd = "zstd"
	CompressionLZ4  = "lz4"
)

// ErrBadSnapshot is returned when a blob does not parse as a snapshot.
var ErrBadSnapshot = errors.New("malformed snapshot")

// SnapshotOptions configure how collection snapshots are written.
type SnapshotOptions struct {
	// Codec encodes the snapshot payload. Defaults to codec.Default.
	Codec codec.Codec
	// Compression is one of CompressionNone, CompressionZstd, CompressionLZ4.
	// Defaults to CompressionZstd.
	Compression string
	// Prefix is prepended to every blob name.
	Prefix string
}

// SnapshotOption mutates SnapshotOptions.
type SnapshotOption func(*SnapshotOptions)

// WithSnapshotCodec selects the payload codec.
func WithSnapshotCodec(c codec.Codec) SnapshotOption {
	return func(o *SnapshotOptions) {
		if c != nil {
			o.Codec = c
		}
	}
}

// WithCompression selects the payload compression by name.
func WithCompression(name string) SnapshotOption {
	return func(o *SnapshotOptions) { o.Compression = name }
}

// WithPrefix prepends a prefix to every snapshot blob name.
func WithPrefix(prefix string) SnapshotOption {
	return func(o *SnapshotOptions) { o.Prefix = prefix }
}

func applySnapshotOptions(opts []SnapshotOption) SnapshotOptions {
	o := SnapshotOptions{
		Codec:       codec.Default,
		Compression: CompressionZstd,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// snapshotPayload is the persisted shape of one collection.
// NOTE: field tags are a compatibility contract; keep them stable.
type snapshotPayload struct {
	NextID uint32                   `json:"next_id"`
	Docs   map[uint32]filter.Fields `json:"docs"`
}

// Snapshot writes one blob per collection, concurrently. Blob names are
// "<prefix><collection>.snap". Each blob is self-describing: a header
// records the codec and compression it was written with.
func (r *Repository) Snapshot(ctx context.Context, bs blobstore.BlobStore, opts ...SnapshotOption) error {
	o := applySnapshotOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range r.Collections() {
		coll := r.Collection(name)
		blobName := path.Join(o.Prefix, name+snapshotSuffix)
		g.Go(func() error {
			data, err := encodeSnapshot(coll.payload(), o)
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", name, err)
			}
			return bs.Put(ctx, blobName, data)
		})
	}
	return g.Wait()
}

// Restore replaces the repository contents with the snapshots found under
// the prefix, loading blobs concurrently. Codec and compression are taken
// from each blob's header.
func (r *Repository) Restore(ctx context.Context, bs blobstore.BlobStore, opts ...SnapshotOption) error {
	o := applySnapshotOptions(opts)

	names, err := bs.List(ctx, o.Prefix)
	if err != nil {
		return err
	}

	var blobNames []string
	for _, n := range names {
		if strings.HasSuffix(n, snapshotSuffix) {
			blobNames = append(blobNames, n)
		}
	}
	return r.restoreBlobs(ctx, bs, o.Prefix, blobNames)
}

func (r *Repository) restoreBlobs(ctx context.Context, bs blobstore.BlobStore, prefix string, blobNames []string) error {
	var (
		mu    sync.Mutex
		colls = make(map[string]*Collection, len(blobNames))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, blobName := range blobNames {
		collName := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(blobName, prefix), "/"), snapshotSuffix)
		g.Go(func() error {
			data, err := bs.Get(ctx, blobName)
			if err != nil {
				return fmt.Errorf("restore %s: %w", collName, err)
			}
			payload, err := decodeSnapshot(data)
			if err != nil {
				return fmt.Errorf("restore %s: %w", collName, err)
			}
			mu.Lock()
			colls[collName] = collectionFromPayload(payload)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.colls = colls
	r.mu.Unlock()
	return nil
}

// payload copies the collection state into its persisted shape.
func (c *Collection) payload() snapshotPayload {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make(map[uint32]filter.Fields, len(c.docs))
	for id, fields := range c.docs {
		docs[id] = cloneFields(fields)
	}
	return snapshotPayload{NextID: c.nextID, Docs: docs}
}

// collectionFromPayload rebuilds a collection, including its inverted index.
func collectionFromPayload(p snapshotPayload) *Collection {
	c := NewCollection()
	if p.NextID > 0 {
		c.nextID = p.NextID
	}
	for id, fields := range p.Docs {
		c.docs[id] = fields
		c.addToIndexLocked(id, fields)
		if id >= c.nextID {
			c.nextID = id + 1
		}
	}
	return c
}

// encodeSnapshot renders: magic | codec name | compression name | payload.
// Names are length-prefixed single bytes; built-in names are well under the
// limit.
func encodeSnapshot(p snapshotPayload, o SnapshotOptions) ([]byte, error) {
	body, err := o.Codec.Marshal(p)
	if err != nil {
		return nil, err
	}
	body, err = compress(o.Compression, body)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(snapshotMagic)+2+len(o.Codec.Name())+len(o.Compression)+len(body))
	buf = append(buf, snapshotMagic...)
	buf = append(buf, byte(len(o.Codec.Name())))
	buf = append(buf, o.Codec.Name()...)
	buf = append(buf, byte(len(o.Compression)))
	buf = append(buf, o.Compression...)
	return append(buf, body...), nil
}

func decodeSnapshot(data []byte) (snapshotPayload, error) {
	var p snapshotPayload

	if len(data) < len(snapshotMagic) || string(data[:len(snapshotMagic)]) != snapshotMagic {
		return p, ErrBadSnapshot
	}
	data = data[len(snapshotMagic):]

	codecName, data, err := readName(data)
	if err != nil {
		return p, err
	}
	compName, data, err := readName(data)
	if err != nil {
		return p, err
	}

	c, ok := codec.ByName(codecName)
	if !ok {
		return p, fmt.Errorf("%w: unknown codec %q", ErrBadSnapshot, codecName)
	}
	body, err := decompress(compName, data)
	if err != nil {
		return p, err
	}
	if err := c.Unmarshal(body, &p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	return p, nil
}

func readName(data []byte) (string, []byte, error) {
	if len(data) < 1 {
		return "", nil, ErrBadSnapshot
	}
	n := int(data[0])
	if len(data) < 1+n {
		return "", nil, ErrBadSnapshot
	}
	return string(data[1 : 1+n]), data[1+n:], nil
}

func compress(name string, data []byte) ([]byte, error) {
	switch name {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}

func decompress(name string, data []byte) ([]byte, error) {
	switch name {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("%w: unknown compression %q", ErrBadSnapshot, name)
	}
}
