package layout

// Metatype is the computed runtime layout of a defined type. It is filled
// exactly once when the type is defined and read-only afterwards.
type Metatype struct {
	size    int
	align   int
	fields  []Field
	offsets []int
	trivial bool
	defined bool
}

// NewMetatype builds a defined metatype with the given properties.
func NewMetatype(size, align int, trivial bool, fields []Field, offsets []int) Metatype {
	if len(fields) != len(offsets) {
		panic("layout: inconsistent fields and offsets")
	}
	return Metatype{
		size:    size,
		align:   align,
		fields:  cloneFields(fields),
		offsets: cloneOffsets(offsets),
		trivial: trivial,
		defined: true,
	}
}

// NewEnumMetatype builds a defined metatype whose offset sequence is
// decoupled from its field sequence: an enum with two or more variants has
// one field per variant but only two slots, the payload at offset 0 and the
// tag at the tag offset.
func NewEnumMetatype(size, align int, trivial bool, fields []Field, offsets []int) Metatype {
	return Metatype{
		size:    size,
		align:   align,
		fields:  cloneFields(fields),
		offsets: cloneOffsets(offsets),
		trivial: trivial,
		defined: true,
	}
}

// Defined reports whether the metatype has been filled by a definition.
func (m *Metatype) Defined() bool {
	return m != nil && m.defined
}

// Size returns the number of bytes an instance occupies in contiguous
// memory.
func (m *Metatype) Size() int {
	return m.size
}

// Align returns the required alignment of an instance.
func (m *Metatype) Align() int {
	return m.align
}

// Trivial reports whether instances can be copied bytewise and need no
// destructor: no transitive field is stored out-of-line.
func (m *Metatype) Trivial() bool {
	return m.trivial
}

// Stride returns the per-element distance when instances are stored in
// contiguous memory: max(1, roundUp(size, align)).
func (m *Metatype) Stride() int {
	s := RoundUp(m.size, m.align)
	if s < 1 {
		return 1
	}
	return s
}

// FieldsLen returns the number of fields.
func (m *Metatype) FieldsLen() int {
	return len(m.fields)
}

// Field returns the i-th field.
func (m *Metatype) Field(i int) Field {
	return m.fields[i]
}

// Fields returns a copy of the field sequence.
func (m *Metatype) Fields() []Field {
	return cloneFields(m.fields)
}

// OffsetsLen returns the number of slots in an instance. For structs this
// equals FieldsLen; for enums with two or more variants it is two.
func (m *Metatype) OffsetsLen() int {
	return len(m.offsets)
}

// Offset returns the byte offset of the i-th slot.
func (m *Metatype) Offset(i int) int {
	return m.offsets[i]
}

// Offsets returns a copy of the offset sequence.
func (m *Metatype) Offsets() []int {
	return cloneOffsets(m.offsets)
}
