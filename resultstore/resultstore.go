// Package resultstore persists clustering results in a blobstore.Store.
//
// A stored result is a single line header followed by the encoded payload,
// with the whole object optionally compressed:
//
//	CLUSTERGO 1 go-json\n{...}
//
// The compression is inferred from the object name (.zst, .lz4). A Store
// additionally maintains a CURRENT pointer naming the latest saved result.
package resultstore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/clustergo/blobstore"
	"github.com/hupe1980/clustergo/codec"
	"github.com/hupe1980/clustergo/internal/compress"
)

const (
	// Magic opens every stored result.
	Magic = "CLUSTERGO"
	// CurrentVersion is the header version written by Encode.
	CurrentVersion = 1
	// CurrentFileName names the pointer to the latest result of a Store.
	CurrentFileName = "CURRENT"
	// Extension is the suffix of result objects, before any compression suffix.
	Extension = ".result"
)

var (
	// ErrBadHeader is returned for objects that are not stored results.
	ErrBadHeader = errors.New("resultstore: bad header")
	// ErrUnsupportedVersion is returned for results written by a newer version.
	ErrUnsupportedVersion = errors.New("resultstore: unsupported version")
	// ErrUnknownCodec is returned when the header names an unknown codec.
	ErrUnknownCodec = errors.New("resultstore: unknown codec")
	// ErrNoCurrent is returned by LoadCurrent before the first Save.
	ErrNoCurrent = errors.New("resultstore: no current result")
)

// Encode serializes v with c and compresses the result with t.
func Encode(v any, c codec.Codec, t compress.Type) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	payload, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("resultstore: encode: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(payload) + 32)
	fmt.Fprintf(&buf, "%s %d %s\n", Magic, CurrentVersion, c.Name())
	buf.Write(payload)

	return compress.Compress(buf.Bytes(), t)
}

// Decode reverses Encode. The codec is taken from the header.
func Decode(data []byte, t compress.Type, v any) error {
	raw, err := compress.Decompress(data, t)
	if err != nil {
		return fmt.Errorf("resultstore: decompress: %w", err)
	}

	r := bufio.NewReader(bytes.NewReader(raw))
	header, err := r.ReadString('\n')
	if err != nil {
		return ErrBadHeader
	}
	fields := strings.Fields(header)
	if len(fields) != 3 || fields[0] != Magic {
		return ErrBadHeader
	}
	version, err := strconv.Atoi(fields[1])
	if err != nil {
		return ErrBadHeader
	}
	if version != CurrentVersion {
		return fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, version, CurrentVersion)
	}
	c, ok := codec.ByName(fields[2])
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, fields[2])
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if err := c.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("resultstore: decode: %w", err)
	}
	return nil
}

// Put encodes v and writes it to name in blobs. The compression follows the
// name suffix.
func Put(ctx context.Context, blobs blobstore.Store, name string, v any, c codec.Codec) error {
	data, err := Encode(v, c, compress.FromName(name))
	if err != nil {
		return err
	}
	if err := blobs.Put(ctx, name, data); err != nil {
		return fmt.Errorf("resultstore: put %q: %w", name, err)
	}
	return nil
}

// Get reads name from blobs and decodes it into v.
func Get(ctx context.Context, blobs blobstore.Store, name string, v any) error {
	data, err := blobstore.ReadAll(ctx, blobs, name)
	if err != nil {
		return fmt.Errorf("resultstore: get %q: %w", name, err)
	}
	return Decode(data, compress.FromName(name), v)
}

// Options configures a Store.
type Options struct {
	// Codec encodes payloads. Defaults to codec.Default.
	Codec codec.Codec
	// Compression applies to every saved result. Defaults to Zstd.
	Compression compress.Type
}

// Store keeps named results under a prefix of a blob store.
type Store struct {
	blobs  blobstore.Store
	prefix string
	opts   Options
	mu     sync.Mutex
}

// New creates a Store writing below prefix in blobs.
func New(blobs blobstore.Store, prefix string, optFns ...func(o *Options)) *Store {
	opts := Options{
		Codec:       codec.Default,
		Compression: compress.Zstd,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		blobs:  blobs,
		prefix: prefix,
		opts:   opts,
	}
}

func (s *Store) objectName(id string) string {
	return path.Join(s.prefix, id+Extension+s.opts.Compression.Extension())
}

// Save writes v under id and makes it the current result. It returns the
// object name.
func (s *Store) Save(ctx context.Context, id string, v any) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("resultstore: invalid id %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.objectName(id)
	if err := Put(ctx, s.blobs, name, v, s.opts.Codec); err != nil {
		return "", err
	}
	if err := s.blobs.Put(ctx, path.Join(s.prefix, CurrentFileName), []byte(name)); err != nil {
		return "", fmt.Errorf("resultstore: update current: %w", err)
	}
	return name, nil
}

// Load decodes the result saved under id.
func (s *Store) Load(ctx context.Context, id string, v any) error {
	return Get(ctx, s.blobs, s.objectName(id), v)
}

// LoadCurrent decodes the most recently saved result and returns its name.
func (s *Store) LoadCurrent(ctx context.Context, v any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := blobstore.ReadAll(ctx, s.blobs, path.Join(s.prefix, CurrentFileName))
	if errors.Is(err, blobstore.ErrNotFound) {
		return "", ErrNoCurrent
	}
	if err != nil {
		return "", err
	}
	name := string(content)
	if err := Get(ctx, s.blobs, name, v); err != nil {
		return "", err
	}
	return name, nil
}

// List returns the ids of all saved results in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	prefix := s.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	names, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, n := range names {
		base := path.Base(n)
		base = strings.TrimSuffix(base, compress.FromName(base).Extension())
		if id, ok := strings.CutSuffix(base, Extension); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
