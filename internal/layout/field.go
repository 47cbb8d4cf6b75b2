package layout

import "xst/internal/types"

// Field describes one component of a composite layout: the field's type and
// whether its instance is stored out-of-line. An out-of-line field occupies
// a machine pointer in-line and owns a separately-allocated payload.
type Field struct {
	Type      *types.Header
	OutOfLine bool
}

// In describes an in-line field of type t.
func In(t *types.Header) Field {
	return Field{Type: t}
}

// Out describes an out-of-line field of type t.
func Out(t *types.Header) Field {
	return Field{Type: t, OutOfLine: true}
}

func cloneFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func cloneOffsets(offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	out := make([]int, len(offsets))
	copy(out, offsets)
	return out
}
