// Package cache persists computed layouts on disk so repeated inspections
// of an unchanged manifest skip the definition work. Only layout numbers
// are cached, never instance data.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Payload format changes
const schemaVersion uint16 = 1

// Digest keys a cache entry: the SHA-256 of the manifest source.
type Digest [sha256.Size]byte

// HashSource computes the cache key of a manifest source.
func HashSource(src []byte) Digest {
	return sha256.Sum256(src)
}

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// DiskCache stores layout payloads keyed by manifest digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the serialized layout summary of one manifest.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Manifest string // manifest name, informational
	Types    []TypeLayout
}

// TypeLayout records the computed layout of one manifest entry.
type TypeLayout struct {
	Description string
	Role        string // "struct" or "enum"
	Size        int
	Align       int
	Stride      int
	Trivial     bool
	Offsets     []int // slot offsets: per field for structs, payload+tag for enums
	Fields      []FieldLayout
}

// FieldLayout records one field of a cached layout.
type FieldLayout struct {
	Type      string
	OutOfLine bool
}

// Open initializes and returns a disk cache at the standard location.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenAt returns a disk cache rooted at an explicit directory.
func OpenAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "layouts", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = schemaVersion

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if removeErr := os.Remove(f.Name()); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "failed to remove temp file: %v\n", removeErr)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A missing
// entry or a schema mismatch is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
