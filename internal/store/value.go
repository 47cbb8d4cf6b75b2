package store

import (
	"fmt"

	"fortio.org/safecast"

	"xst/internal/layout"
	"xst/internal/mem"
	"xst/internal/trace"
	"xst/internal/types"
)

// AddressOf resolves the address of the i-th field of a struct instance at
// base. In-line fields resolve to base plus their offset. Out-of-line
// fields resolve through the pointer slot; a null slot materializes a
// zeroed payload first, so an unwritten slot costs nothing until read.
func (s *Store) AddressOf(m *layout.Metatype, i int, base mem.Addr) (mem.Addr, error) {
	return s.resolveField(m.Field(i), base+mem.Addr(m.Offset(i)))
}

// VariantAddress resolves the payload address of the given variant of an
// enum instance at base. The payload slot is shared between variants; the
// indirection is the selected variant's, not the first field's.
func (s *Store) VariantAddress(m *layout.Metatype, ordinal int, base mem.Addr) (mem.Addr, error) {
	return s.resolveField(m.Field(ordinal), base+mem.Addr(m.Offset(0)))
}

func (s *Store) resolveField(f layout.Field, slot mem.Addr) (mem.Addr, error) {
	if !f.OutOfLine {
		return slot, nil
	}
	p := s.memory.PtrAt(slot)
	if p == 0 {
		fm, err := s.Metatype(f.Type)
		if err != nil {
			return 0, err
		}
		p = s.memory.Alloc(fm.Align(), fm.Size(), true)
		s.memory.PutPtr(slot, p)
		s.emit(trace.OpAlloc, f.Type, p, fm.Size())
	}
	return p, nil
}

// WithTemporaryAllocation calls fn with a zero-initialized, properly
// aligned buffer of stride(t)*count bytes (size(t) when count is 1). The
// buffer is released when fn returns, on every exit path. Instances the
// caller constructs in the buffer must be deinitialized before returning;
// the store does not do that automatically.
func (s *Store) WithTemporaryAllocation(t *types.Header, count int, fn func(mem.Addr) error) error {
	m, err := s.Metatype(t)
	if err != nil {
		return err
	}
	size := m.Size()
	if count != 1 {
		size = m.Stride() * count
	}
	return s.memory.WithTemporary(m.Align(), size, fn)
}

// CopyInitialize initializes fresh storage at target to a deep copy of the
// instance at source. Trivial types are copied bytewise; otherwise structs
// recurse per field and enums copy the selected variant and its tag. Fresh
// out-of-line payloads are allocated for the target, never shared with the
// source.
func (s *Store) CopyInitialize(t *types.Header, target, source mem.Addr) error {
	m, err := s.Metatype(t)
	if err != nil {
		return err
	}
	if err := s.copyValue(t, m, target, source); err != nil {
		return err
	}
	s.emit(trace.OpCopy, t, target, m.Size())
	return nil
}

func (s *Store) copyValue(t *types.Header, m *layout.Metatype, target, source mem.Addr) error {
	switch t.Tag() {
	case types.TagBuiltin:
		s.memory.Copy(target, source, m.Size())
		return nil

	case types.TagStruct:
		if m.Trivial() {
			s.memory.Copy(target, source, m.Size())
			return nil
		}
		for i := 0; i < m.FieldsLen(); i++ {
			ta, err := s.AddressOf(m, i, target)
			if err != nil {
				return err
			}
			sa, err := s.AddressOf(m, i, source)
			if err != nil {
				return err
			}
			ft := m.Field(i).Type
			fm, err := s.Metatype(ft)
			if err != nil {
				return err
			}
			if err := s.copyValue(ft, fm, ta, sa); err != nil {
				return err
			}
		}
		return nil

	case types.TagEnum:
		if m.Trivial() {
			s.memory.Copy(target, source, m.Size())
			return nil
		}
		ordinal := 0
		if m.OffsetsLen() >= 2 {
			ordinal = int(s.memory.U16(source + mem.Addr(m.Offset(1))))
		}
		if ordinal >= m.FieldsLen() {
			return &Error{Kind: ErrInvalidArgument, Type: t, Detail: fmt.Sprintf("variant ordinal %d out of range", ordinal)}
		}
		ta, err := s.VariantAddress(m, ordinal, target)
		if err != nil {
			return err
		}
		sa, err := s.VariantAddress(m, ordinal, source)
		if err != nil {
			return err
		}
		vt := m.Field(ordinal).Type
		vm, err := s.Metatype(vt)
		if err != nil {
			return err
		}
		if err := s.copyValue(vt, vm, ta, sa); err != nil {
			return err
		}
		if m.OffsetsLen() >= 2 {
			s.memory.PutU16(target+mem.Addr(m.Offset(1)), uint16(ordinal))
		}
		return nil

	default:
		return &Error{Kind: ErrUndefinedType, Type: t}
	}
}

// CopyInitializeEnum constructs an enum instance at target from a payload
// of the given variant: the payload is deep-copied into the shared slot and
// the tag is set to the ordinal. Single-variant enums carry no tag.
func (s *Store) CopyInitializeEnum(t *types.Header, ordinal int, target, payloadSource mem.Addr) error {
	m, err := s.Metatype(t)
	if err != nil {
		return err
	}
	if t.Tag() != types.TagEnum {
		return &Error{Kind: ErrInvalidArgument, Type: t, Detail: "tag is " + t.Tag().String()}
	}
	if ordinal < 0 || ordinal >= m.FieldsLen() {
		return &Error{Kind: ErrInvalidArgument, Type: t, Detail: fmt.Sprintf("variant ordinal %d out of range", ordinal)}
	}
	ta, err := s.VariantAddress(m, ordinal, target)
	if err != nil {
		return err
	}
	vt := m.Field(ordinal).Type
	vm, err := s.Metatype(vt)
	if err != nil {
		return err
	}
	if err := s.copyValue(vt, vm, ta, payloadSource); err != nil {
		return err
	}
	if m.OffsetsLen() >= 2 {
		tag, err := safecast.Conv[uint16](ordinal)
		if err != nil {
			return &Error{Kind: ErrInvalidArgument, Type: t, Detail: fmt.Sprintf("variant ordinal %d does not fit the tag: %v", ordinal, err)}
		}
		s.memory.PutU16(target+mem.Addr(m.Offset(1)), tag)
	}
	s.emit(trace.OpCopy, t, target, m.Size())
	return nil
}

// Scalar constrains the Go values CopyInitializeBuiltin accepts. Addr
// initializes a Str slot with the address of a C-string.
type Scalar interface {
	bool | int32 | int64 | mem.Addr
}

// CopyInitializeBuiltin writes a Go scalar into a builtin instance at
// target. The width of the scalar must match the size of t exactly.
func CopyInitializeBuiltin[T Scalar](s *Store, t *types.Header, target mem.Addr, value T) error {
	m, err := s.Metatype(t)
	if err != nil {
		return err
	}
	if t.Tag() != types.TagBuiltin {
		return &Error{Kind: ErrInvalidArgument, Type: t, Detail: "tag is " + t.Tag().String()}
	}
	switch v := any(value).(type) {
	case bool:
		if m.Size() != 1 {
			return widthError(t, 1, m.Size())
		}
		s.memory.PutBool(target, v)
	case int32:
		if m.Size() != 4 {
			return widthError(t, 4, m.Size())
		}
		s.memory.PutI32(target, v)
	case int64:
		if m.Size() != 8 {
			return widthError(t, 8, m.Size())
		}
		s.memory.PutI64(target, v)
	case mem.Addr:
		if m.Size() != 8 {
			return widthError(t, 8, m.Size())
		}
		s.memory.PutPtr(target, v)
	}
	return nil
}

func widthError(t *types.Header, width, size int) error {
	return &Error{Kind: ErrInvalidArgument, Type: t, Detail: fmt.Sprintf("value width %d does not match type size %d", width, size)}
}

// Deinitialize destroys the instance at addr in place: fields are
// deinitialized recursively and out-of-line payloads are released. Trivial
// types need no work. Pointer slots are cleared after release, so the
// storage can be reinitialized.
func (s *Store) Deinitialize(t *types.Header, addr mem.Addr) error {
	m, err := s.Metatype(t)
	if err != nil {
		return err
	}
	if err := s.deinitValue(t, m, addr); err != nil {
		return err
	}
	s.emit(trace.OpDeinit, t, addr, m.Size())
	return nil
}

func (s *Store) deinitValue(t *types.Header, m *layout.Metatype, addr mem.Addr) error {
	if m.Trivial() {
		return nil
	}
	switch t.Tag() {
	case types.TagStruct:
		for i := 0; i < m.FieldsLen(); i++ {
			if err := s.deinitField(m.Field(i), addr+mem.Addr(m.Offset(i))); err != nil {
				return err
			}
		}
		return nil

	case types.TagEnum:
		ordinal := 0
		if m.OffsetsLen() >= 2 {
			ordinal = int(s.memory.U16(addr + mem.Addr(m.Offset(1))))
		}
		if ordinal >= m.FieldsLen() {
			return &Error{Kind: ErrInvalidArgument, Type: t, Detail: fmt.Sprintf("variant ordinal %d out of range", ordinal)}
		}
		return s.deinitField(m.Field(ordinal), addr+mem.Addr(m.Offset(0)))

	default:
		return &Error{Kind: ErrUndefinedType, Type: t}
	}
}

func (s *Store) deinitField(f layout.Field, slot mem.Addr) error {
	fm, err := s.Metatype(f.Type)
	if err != nil {
		return err
	}
	if !f.OutOfLine {
		return s.deinitValue(f.Type, fm, slot)
	}
	p := s.memory.PtrAt(slot)
	if p == 0 {
		return nil
	}
	if err := s.deinitValue(f.Type, fm, p); err != nil {
		return err
	}
	s.memory.Free(p)
	s.memory.PutPtr(slot, 0)
	s.emit(trace.OpFree, f.Type, p, fm.Size())
	return nil
}
