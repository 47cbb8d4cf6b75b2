package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func samplePayload() *Payload {
	return &Payload{
		Manifest: "list",
		Types: []TypeLayout{
			{
				Description: "List.Cons<Int64>",
				Role:        "struct",
				Size:        16,
				Align:       8,
				Stride:      16,
				Offsets:     []int{0, 8},
				Fields: []FieldLayout{
					{Type: "Int64"},
					{Type: "List<Int64>", OutOfLine: true},
				},
			},
			{
				Description: "List<Int64>",
				Role:        "enum",
				Size:        18,
				Align:       8,
				Stride:      24,
				Offsets:     []int{0, 16},
				Fields: []FieldLayout{
					{Type: "List.Cons<Int64>"},
					{Type: "List.Empty<Int64>"},
				},
			},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	key := HashSource([]byte("source"))
	want := samplePayload()
	if err := c.Put(key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var got Payload
	hit, err := c.Get(key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatalf("expected a hit")
	}
	if !reflect.DeepEqual(&got, want) {
		t.Fatalf("payload mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestGetMissesUnknownKey(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	var got Payload
	hit, err := c.Get(HashSource([]byte("never written")), &got)
	if err != nil || hit {
		t.Fatalf("expected a clean miss, got hit=%v err=%v", hit, err)
	}
}

func TestGetMissesOnSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenAt(dir)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	key := HashSource([]byte("source"))
	stale := samplePayload()
	if err := c.Put(key, stale); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Rewrite the entry with a bumped schema to simulate a newer writer.
	stale.Schema = schemaVersion + 1
	path := c.pathFor(key)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("rewrite entry: %v", err)
	}
	if err := msgpack.NewEncoder(f).Encode(stale); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	var got Payload
	hit, err := c.Get(key, &got)
	if err != nil || hit {
		t.Fatalf("schema mismatch should miss, got hit=%v err=%v", hit, err)
	}
}

func TestDifferentSourcesDifferentKeys(t *testing.T) {
	a := HashSource([]byte("a"))
	b := HashSource([]byte("b"))
	if a == b {
		t.Fatalf("distinct sources should hash differently")
	}
	if a.IsZero() {
		t.Fatalf("computed digest should not be zero")
	}
	var z Digest
	if !z.IsZero() {
		t.Fatalf("zero digest should report zero")
	}
}

func TestDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := OpenAt(dir)
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	key := HashSource([]byte("source"))
	if err := c.Put(key, samplePayload()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("cache directory should be gone, stat err = %v", err)
	}
	var got Payload
	hit, err := c.Get(key, &got)
	if err != nil || hit {
		t.Fatalf("expected a miss after DropAll, got hit=%v err=%v", hit, err)
	}
}
