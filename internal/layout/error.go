package layout

import (
	"fmt"

	"xst/internal/types"
)

// ErrorKind enumerates types of layout calculation errors.
type ErrorKind uint8

const (
	// ErrUndefinedDependency indicates an in-line field whose type has no
	// defined layout yet.
	ErrUndefinedDependency ErrorKind = iota + 1
	ErrSizeConversion
)

// Error represents an error during layout computation.
type Error struct {
	Kind ErrorKind
	Type *types.Header // the field type at fault
	Err  error         // for ErrSizeConversion
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrUndefinedDependency:
		return fmt.Sprintf("%s has no defined layout yet", e.Type.Description())
	case ErrSizeConversion:
		if e.Err != nil {
			return fmt.Sprintf("layout size conversion error (%s): %v", e.Type.Description(), e.Err)
		}
		return fmt.Sprintf("layout size conversion error (%s)", e.Type.Description())
	default:
		return fmt.Sprintf("layout error kind=%d (%s)", e.Kind, e.Type.Description())
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
