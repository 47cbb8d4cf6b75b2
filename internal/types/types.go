package types

import "fmt"

// Tag identifies the variant of a type header.
type Tag uint8

const (
	TagNone Tag = iota
	TagBuiltin
	TagStruct
	TagEnum
)

func (t Tag) String() string {
	switch t {
	case TagNone:
		return "none"
	case TagBuiltin:
		return "builtin"
	case TagStruct:
		return "struct"
	case TagEnum:
		return "enum"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// Kind enumerates the built-in scalar types.
type Kind uint8

const (
	KindBool Kind = iota
	KindI32
	KindI64
	KindStr
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindI32:
		return "Int32"
	case KindI64:
		return "Int64"
	case KindStr:
		return "String"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// NoID marks a header that has not been interned.
const NoID uint32 = 0

// Header uniquely identifies a type at runtime. Canonical instances are
// obtained from an Interner; once interned, two headers describe the same
// type iff they are the same pointer.
type Header struct {
	tag  Tag
	kind Kind      // builtin headers only
	name string    // composite headers only
	args []*Header // composite headers only, canonical pointers

	id uint32 // assigned by the interner, NoID until interned
}

// Descriptor helpers ---------------------------------------------------------

// None describes the absent type.
func None() Header {
	return Header{tag: TagNone}
}

// Builtin describes a built-in scalar.
func Builtin(kind Kind) Header {
	return Header{tag: TagBuiltin, kind: kind}
}

// Struct describes a nominal product type applied to the given arguments.
// Arguments must be canonical pointers obtained from the same interner.
func Struct(name string, args ...*Header) Header {
	return Header{tag: TagStruct, name: name, args: cloneArgs(args)}
}

// Enum describes a nominal sum type applied to the given arguments.
// Arguments must be canonical pointers obtained from the same interner.
func Enum(name string, args ...*Header) Header {
	return Header{tag: TagEnum, name: name, args: cloneArgs(args)}
}

// Tag returns the variant of the header.
func (h *Header) Tag() Tag {
	return h.tag
}

// Kind returns the scalar kind; ok is false unless the header is a builtin.
func (h *Header) Kind() (Kind, bool) {
	return h.kind, h.tag == TagBuiltin
}

// Name returns the nominal name of a composite header, or "".
func (h *Header) Name() string {
	return h.name
}

// ArgsLen returns the number of type arguments.
func (h *Header) ArgsLen() int {
	return len(h.args)
}

// Arg returns the i-th type argument.
func (h *Header) Arg(i int) *Header {
	return h.args[i]
}

// Args returns a copy of the type arguments.
func (h *Header) Args() []*Header {
	return cloneArgs(h.args)
}

// ID returns the interner-assigned identifier, or NoID.
func (h *Header) ID() uint32 {
	return h.id
}

// Equal reports structural equality. Interned headers hit the pointer fast
// path; otherwise the discriminant and contents are compared element-wise.
// Argument pointers are compared by identity.
func (h *Header) Equal(other *Header) bool {
	if h == other {
		return true
	}
	if h == nil || other == nil {
		return false
	}
	if h.tag != other.tag {
		return false
	}
	switch h.tag {
	case TagNone:
		return true
	case TagBuiltin:
		return h.kind == other.kind
	default:
		if h.name != other.name || len(h.args) != len(other.args) {
			return false
		}
		for i := range h.args {
			if h.args[i] != other.args[i] {
				return false
			}
		}
		return true
	}
}

// Hash returns an FNV-1a hash of the structural identity.
func (h *Header) Hash() uint64 {
	const (
		fnvOffset64 uint64 = 14695981039346656037
		fnvPrime64  uint64 = 1099511628211
	)
	hash := fnvOffset64
	mix := func(x uint64) {
		hash ^= x
		hash *= fnvPrime64
	}
	mix(uint64(h.tag))
	switch h.tag {
	case TagBuiltin:
		mix(uint64(h.kind))
	case TagStruct, TagEnum:
		for i := 0; i < len(h.name); i++ {
			mix(uint64(h.name[i]))
		}
		for _, a := range h.args {
			mix(uint64(a.id))
		}
	}
	return hash
}

// Description renders the human-readable name of the type: "Bool", "Int32",
// "Int64", "String" for builtins, "Name<A, B>" for composites, and "nil"
// for the none header.
func (h *Header) Description() string {
	switch h.tag {
	case TagNone:
		return "nil"
	case TagBuiltin:
		return h.kind.String()
	default:
		if len(h.args) == 0 {
			return h.name
		}
		out := h.name + "<"
		for i, a := range h.args {
			if i > 0 {
				out += ", "
			}
			out += a.Description()
		}
		return out + ">"
	}
}

func (h *Header) String() string {
	return h.Description()
}

func cloneArgs(args []*Header) []*Header {
	if len(args) == 0 {
		return nil
	}
	out := make([]*Header, len(args))
	copy(out, args)
	return out
}
