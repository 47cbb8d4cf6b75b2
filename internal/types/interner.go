package types

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"
)

// Builtins stores canonical headers for the primitive types.
type Builtins struct {
	None *Header
	Bool *Header
	I32  *Header
	I64  *Header
	Str  *Header
}

// Interner canonicalizes structurally-equal headers to a single shared
// pointer. Interned headers never move; their addresses are stable for the
// interner's lifetime and serve as type identities.
type Interner struct {
	headers  []*Header
	index    map[headerKey]*Header
	builtins Builtins
}

// NewInterner constructs an interner seeded with the none header and the
// built-in scalars.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[headerKey]*Header, 64),
	}
	in.headers = append(in.headers, nil) // reserve ID 0 as invalid sentinel
	in.builtins.None = in.Intern(None())
	in.builtins.Bool = in.Intern(Builtin(KindBool))
	in.builtins.I32 = in.Intern(Builtin(KindI32))
	in.builtins.I64 = in.Intern(Builtin(KindI64))
	in.builtins.Str = in.Intern(Builtin(KindStr))
	return in
}

// Builtins returns canonical headers for the primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern returns the unique canonical pointer for the given descriptor,
// allocating it on first sighting. Probing an already-interned descriptor
// does not allocate a new header.
func (in *Interner) Intern(proto Header) *Header {
	key := keyOf(&proto)
	if h, ok := in.index[key]; ok {
		return h
	}
	id, err := safecast.Conv[uint32](len(in.headers))
	if err != nil {
		panic(fmt.Errorf("len(headers) overflow: %w", err))
	}
	h := &Header{
		tag:  proto.tag,
		kind: proto.kind,
		name: proto.name,
		args: cloneArgs(proto.args),
		id:   id,
	}
	in.headers = append(in.headers, h)
	in.index[key] = h
	return h
}

// Lookup returns the canonical pointer equal to the descriptor, if any.
func (in *Interner) Lookup(proto Header) (*Header, bool) {
	h, ok := in.index[keyOf(&proto)]
	return h, ok
}

// Contains reports whether h was interned by this interner.
func (in *Interner) Contains(h *Header) bool {
	if h == nil || h.id == NoID || int(h.id) >= len(in.headers) {
		return false
	}
	return in.headers[h.id] == h
}

// Len returns the number of interned headers.
func (in *Interner) Len() int {
	return len(in.headers) - 1
}

// All returns the interned headers in interning order.
func (in *Interner) All() []*Header {
	out := make([]*Header, 0, len(in.headers)-1)
	for _, h := range in.headers[1:] {
		out = append(out, h)
	}
	return out
}

// headerKey is the comparable structural identity of a header. Composite
// arguments are already canonical, so their interner IDs identify them.
type headerKey struct {
	tag  Tag
	kind Kind
	name string
	args string
}

func keyOf(h *Header) headerKey {
	key := headerKey{tag: h.tag}
	switch h.tag {
	case TagBuiltin:
		key.kind = h.kind
	case TagStruct, TagEnum:
		key.name = h.name
		if len(h.args) > 0 {
			buf := make([]byte, 0, len(h.args)*4)
			for _, a := range h.args {
				buf = strconv.AppendUint(buf, uint64(a.id), 36)
				buf = append(buf, ',')
			}
			key.args = string(buf)
		}
	}
	return key
}
