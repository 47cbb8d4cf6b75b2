package store

import (
	"time"

	"xst/internal/layout"
	"xst/internal/mem"
	"xst/internal/trace"
	"xst/internal/types"
)

// Config holds store configuration.
type Config struct {
	MemoryLimit int          // byte limit of the instance memory (0 = default)
	Tracer      trace.Tracer // nil disables tracing
}

// Store is the owning registry of a type system: it interns headers to
// canonical pointers, installs a metatype per definition, and performs the
// value operations that a descriptor alone makes possible.
//
// A store is single-threaded. Independent stores do not interact.
type Store struct {
	interner *types.Interner
	target   layout.Target
	meta     map[*types.Header]*layout.Metatype
	memory   *mem.Memory
	tracer   trace.Tracer
}

// New creates a store with default configuration.
func New() *Store {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a store. The built-in scalars are predeclared and
// predefined; the none header is predeclared but never gains a layout.
func NewWithConfig(cfg Config) *Store {
	tr := cfg.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	s := &Store{
		interner: types.NewInterner(),
		target:   layout.LE64(),
		meta:     make(map[*types.Header]*layout.Metatype, 64),
		memory:   mem.NewWithLimit(cfg.MemoryLimit),
		tracer:   tr,
	}

	b := s.interner.Builtins()
	s.meta[b.None] = new(layout.Metatype)
	s.install(b.Bool, layout.NewMetatype(1, 1, true, nil, nil))
	s.install(b.I32, layout.NewMetatype(4, 4, true, nil, nil))
	s.install(b.I64, layout.NewMetatype(8, 8, true, nil, nil))
	s.install(b.Str, layout.NewMetatype(s.target.PtrSize, s.target.PtrAlign, true, nil, nil))
	return s
}

// Builtins returns the canonical headers of the primitive types.
func (s *Store) Builtins() types.Builtins {
	return s.interner.Builtins()
}

// Memory returns the linear memory instances live in.
func (s *Store) Memory() *mem.Memory {
	return s.memory
}

// Target returns the machine model layouts are computed for.
func (s *Store) Target() layout.Target {
	return s.target
}

// Types returns all interned headers in declaration order.
func (s *Store) Types() []*types.Header {
	return s.interner.All()
}

// LeakCheck reports instance storage still allocated, or nil when none.
func (s *Store) LeakCheck() error {
	return s.memory.LeakCheck()
}

// Declare interns the descriptor and returns its canonical pointer. An
// equivalent header declared earlier yields the same pointer; a new one is
// installed with an undefined metatype. The pointer is stable for the
// store's lifetime.
func (s *Store) Declare(proto types.Header) *types.Header {
	h := s.interner.Intern(proto)
	if _, ok := s.meta[h]; !ok {
		s.meta[h] = new(layout.Metatype)
		s.emit(trace.OpDeclare, h, 0, 0)
	}
	return h
}

// Defined reports whether a metatype has been defined for t.
func (s *Store) Defined(t *types.Header) bool {
	m, ok := s.meta[t]
	return ok && m.Defined()
}

// Metatype returns the layout of t. It fails when t was never declared in
// this store or declared but not yet defined.
func (s *Store) Metatype(t *types.Header) (*layout.Metatype, error) {
	m, ok := s.meta[t]
	if !ok {
		return nil, &Error{Kind: ErrUnknownType, Type: t}
	}
	if !m.Defined() {
		return nil, &Error{Kind: ErrUndefinedType, Type: t}
	}
	return m, nil
}

// DefineStruct installs the product layout of t from its fields. Field
// types must be declared in this store; in-line field types must already be
// defined. Defining an undeclared type, a non-struct header, or a type that
// is already defined fails.
func (s *Store) DefineStruct(t *types.Header, fields []layout.Field) (*layout.Metatype, error) {
	if err := s.checkDefinable(t, types.TagStruct); err != nil {
		return nil, err
	}
	m, err := layout.ComputeStruct(fields, s.target, s)
	if err != nil {
		return nil, err
	}
	mt := s.install(t, m)
	s.emit(trace.OpDefine, t, 0, mt.Size())
	return mt, nil
}

// DefineEnum installs the sum layout of t from its variants, one field per
// variant. The same preconditions as DefineStruct apply.
func (s *Store) DefineEnum(t *types.Header, fields []layout.Field) (*layout.Metatype, error) {
	if err := s.checkDefinable(t, types.TagEnum); err != nil {
		return nil, err
	}
	m, err := layout.ComputeEnum(fields, s.target, s)
	if err != nil {
		return nil, err
	}
	mt := s.install(t, m)
	s.emit(trace.OpDefine, t, 0, mt.Size())
	return mt, nil
}

func (s *Store) checkDefinable(t *types.Header, want types.Tag) error {
	m, ok := s.meta[t]
	if !ok || !s.interner.Contains(t) {
		return &Error{Kind: ErrUnknownType, Type: t}
	}
	if t.Tag() != want {
		return &Error{Kind: ErrInvalidArgument, Type: t, Detail: "tag is " + t.Tag().String()}
	}
	if m.Defined() {
		return &Error{Kind: ErrRedefinition, Type: t}
	}
	return nil
}

// install fills the placeholder in place so pointers handed out before the
// definition observe it.
func (s *Store) install(t *types.Header, m layout.Metatype) *layout.Metatype {
	p, ok := s.meta[t]
	if !ok {
		p = new(layout.Metatype)
		s.meta[t] = p
	}
	*p = m
	return p
}

// TypeLayout reports the layout of an already-defined type. It is the
// resolver the layout computation probes for in-line field types; an
// undefined field type surfaces as an undefined-dependency error.
func (s *Store) TypeLayout(t *types.Header) (size, align int, trivial bool, err error) {
	m, ok := s.meta[t]
	if !ok {
		return 0, 0, false, &Error{Kind: ErrUnknownType, Type: t}
	}
	if !m.Defined() {
		return 0, 0, false, &layout.Error{Kind: layout.ErrUndefinedDependency, Type: t}
	}
	return m.Size(), m.Align(), m.Trivial(), nil
}

// Size returns the byte size of an instance of t.
func (s *Store) Size(t *types.Header) (int, error) {
	m, err := s.Metatype(t)
	if err != nil {
		return 0, err
	}
	return m.Size(), nil
}

// Alignment returns the required alignment of an instance of t.
func (s *Store) Alignment(t *types.Header) (int, error) {
	m, err := s.Metatype(t)
	if err != nil {
		return 0, err
	}
	return m.Align(), nil
}

// Stride returns the per-element distance of t instances in contiguous
// memory.
func (s *Store) Stride(t *types.Header) (int, error) {
	m, err := s.Metatype(t)
	if err != nil {
		return 0, err
	}
	return m.Stride(), nil
}

// FieldSize returns the in-line footprint of f: pointer-sized when the
// field is out-of-line.
func (s *Store) FieldSize(f layout.Field) (int, error) {
	return layout.FieldSize(f, s.target, s)
}

// FieldAlignment returns the in-line alignment of f: pointer-aligned when
// the field is out-of-line.
func (s *Store) FieldAlignment(f layout.Field) (int, error) {
	return layout.FieldAlign(f, s.target, s)
}

// Offset returns the byte offset of the i-th slot of m.
func (s *Store) Offset(m *layout.Metatype, i int) int {
	return m.Offset(i)
}

func (s *Store) emit(op trace.Op, t *types.Header, addr mem.Addr, size int) {
	if !s.tracer.Enabled() {
		return
	}
	s.tracer.Emit(&trace.Event{
		Time: time.Now(),
		Op:   op,
		Type: t.Description(),
		Addr: uint64(addr),
		Size: size,
	})
}
