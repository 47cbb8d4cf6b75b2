package store

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"xst/internal/layout"
	"xst/internal/mem"
	"xst/internal/trace"
	"xst/internal/types"
)

// DumpInstance writes the textual rendering of the instance at addr:
// scalars render natively (true/false, decimal integers, the referenced
// C-string for Str), composites render as Name<Args>(...) with an element
// per field for structs and the active variant for enums, and the none
// header renders as nil.
func (s *Store) DumpInstance(w io.Writer, t *types.Header, addr mem.Addr) error {
	if err := s.dumpValue(w, t, addr); err != nil {
		return err
	}
	s.emit(trace.OpDump, t, addr, 0)
	return nil
}

// DescribeInstance returns the rendering of DumpInstance as a string.
func (s *Store) DescribeInstance(t *types.Header, addr mem.Addr) (string, error) {
	var b strings.Builder
	if err := s.dumpValue(&b, t, addr); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Store) dumpValue(w io.Writer, t *types.Header, addr mem.Addr) error {
	switch t.Tag() {
	case types.TagNone:
		_, err := io.WriteString(w, "nil")
		return err

	case types.TagBuiltin:
		return s.dumpScalar(w, t, addr)

	case types.TagStruct:
		m, err := s.Metatype(t)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, t.Description()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "("); err != nil {
			return err
		}
		for i := 0; i < m.FieldsLen(); i++ {
			if i > 0 {
				if _, err := io.WriteString(w, ", "); err != nil {
					return err
				}
			}
			if err := s.dumpField(w, m.Field(i), addr+mem.Addr(m.Offset(i))); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, ")")
		return err

	case types.TagEnum:
		m, err := s.Metatype(t)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, t.Description()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "("); err != nil {
			return err
		}
		if m.FieldsLen() > 0 {
			ordinal := 0
			if m.OffsetsLen() >= 2 {
				ordinal = int(s.memory.U16(addr + mem.Addr(m.Offset(1))))
			}
			if ordinal >= m.FieldsLen() {
				return &Error{Kind: ErrInvalidArgument, Type: t, Detail: fmt.Sprintf("variant ordinal %d out of range", ordinal)}
			}
			if err := s.dumpField(w, m.Field(ordinal), addr+mem.Addr(m.Offset(0))); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, ")")
		return err

	default:
		return &Error{Kind: ErrUnknownType, Type: t}
	}
}

func (s *Store) dumpScalar(w io.Writer, t *types.Header, addr mem.Addr) error {
	kind, _ := t.Kind()
	var out string
	switch kind {
	case types.KindBool:
		out = strconv.FormatBool(s.memory.Bool(addr))
	case types.KindI32:
		out = strconv.FormatInt(int64(s.memory.I32(addr)), 10)
	case types.KindI64:
		out = strconv.FormatInt(s.memory.I64(addr), 10)
	case types.KindStr:
		out = s.memory.CString(s.memory.PtrAt(addr))
	default:
		return &Error{Kind: ErrInvalidArgument, Type: t, Detail: "unrenderable builtin"}
	}
	_, err := io.WriteString(w, out)
	return err
}

// dumpField renders the value stored through a field slot. A null
// out-of-line slot renders as nil: dumping never materializes payloads.
func (s *Store) dumpField(w io.Writer, f layout.Field, slot mem.Addr) error {
	at := slot
	if f.OutOfLine {
		p := s.memory.PtrAt(slot)
		if p == 0 {
			_, err := io.WriteString(w, "nil")
			return err
		}
		at = p
	}
	return s.dumpValue(w, f.Type, at)
}
