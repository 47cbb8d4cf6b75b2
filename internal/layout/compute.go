package layout

import "xst/internal/types"

// Resolver reports the layout of already-defined types. It is implemented
// by the store, which owns the metatype table.
type Resolver interface {
	// TypeLayout returns the size, alignment, and triviality of t, or an
	// error when t has no defined layout.
	TypeLayout(t *types.Header) (size, align int, trivial bool, err error)
}

// FieldSize returns the in-line footprint of f: the size of a machine
// pointer when the field is out-of-line, the size of the field's type
// otherwise.
func FieldSize(f Field, target Target, r Resolver) (int, error) {
	if f.OutOfLine {
		return target.PtrSize, nil
	}
	size, _, _, err := r.TypeLayout(f.Type)
	return size, err
}

// FieldAlign returns the in-line alignment of f: pointer alignment when the
// field is out-of-line, the alignment of the field's type otherwise.
func FieldAlign(f Field, target Target, r Resolver) (int, error) {
	if f.OutOfLine {
		return target.PtrAlign, nil
	}
	_, align, _, err := r.TypeLayout(f.Type)
	return align, err
}

// fieldTrivial reports whether f involves no out-of-line storage.
func fieldTrivial(f Field, r Resolver) (bool, error) {
	if f.OutOfLine {
		return false, nil
	}
	_, _, trivial, err := r.TypeLayout(f.Type)
	return trivial, err
}

func allTrivial(fields []Field, r Resolver) (bool, error) {
	for _, f := range fields {
		t, err := fieldTrivial(f, r)
		if err != nil {
			return false, err
		}
		if !t {
			return false, nil
		}
	}
	return true, nil
}

// ComputeStruct lays out a product type: fields are placed in order, each
// aligned to its own requirement; the size extends to the end of the last
// field and the alignment is the maximum over fields. An empty struct is
// the zero-size trivial layout.
func ComputeStruct(fields []Field, target Target, r Resolver) (Metatype, error) {
	if len(fields) == 0 {
		return NewMetatype(0, 1, true, nil, nil), nil
	}

	offsets := make([]int, len(fields))
	align := 1
	for i, f := range fields {
		fAlign, err := FieldAlign(f, target, r)
		if err != nil {
			return Metatype{}, err
		}
		if i > 0 {
			prevSize, err := FieldSize(fields[i-1], target, r)
			if err != nil {
				return Metatype{}, err
			}
			offsets[i] = RoundUp(offsets[i-1]+prevSize, fAlign)
		}
		align = maxInt(align, fAlign)
	}

	lastSize, err := FieldSize(fields[len(fields)-1], target, r)
	if err != nil {
		return Metatype{}, err
	}
	size := offsets[len(offsets)-1] + lastSize

	trivial, err := allTrivial(fields, r)
	if err != nil {
		return Metatype{}, err
	}
	return NewMetatype(size, align, trivial, fields, offsets), nil
}

// ComputeEnum lays out a sum type. With two or more variants an instance
// has a payload slot at offset 0 sized for the largest variant and a 16-bit
// tag placed after it; a single-variant enum collapses to the layout of its
// variant with no tag; an empty enum is the zero-size trivial layout.
func ComputeEnum(fields []Field, target Target, r Resolver) (Metatype, error) {
	switch len(fields) {
	case 0:
		return NewEnumMetatype(0, 1, true, nil, nil), nil

	case 1:
		size, err := FieldSize(fields[0], target, r)
		if err != nil {
			return Metatype{}, err
		}
		align, err := FieldAlign(fields[0], target, r)
		if err != nil {
			return Metatype{}, err
		}
		trivial, err := fieldTrivial(fields[0], r)
		if err != nil {
			return Metatype{}, err
		}
		return NewEnumMetatype(size, align, trivial, fields, []int{0}), nil

	default:
		maxSize := 0
		align := 1
		for _, f := range fields {
			fSize, err := FieldSize(f, target, r)
			if err != nil {
				return Metatype{}, err
			}
			fAlign, err := FieldAlign(f, target, r)
			if err != nil {
				return Metatype{}, err
			}
			maxSize = maxInt(maxSize, fSize)
			align = maxInt(align, fAlign)
		}
		tagOffset := RoundUp(maxSize, TagAlign)
		size := tagOffset + TagSize
		align = maxInt(align, TagAlign)

		trivial, err := allTrivial(fields, r)
		if err != nil {
			return Metatype{}, err
		}
		return NewEnumMetatype(size, align, trivial, fields, []int{0, tagOffset}), nil
	}
}
