package store

import (
	"fmt"

	"xst/internal/types"
)

// ErrorKind enumerates the ways collaborators can misuse a store.
type ErrorKind uint8

const (
	// ErrUnknownType indicates an operation on a type not interned in this
	// store.
	ErrUnknownType ErrorKind = iota + 1
	// ErrRedefinition indicates a second definition of the same type.
	ErrRedefinition
	// ErrUndefinedType indicates a value operation on a type whose layout
	// has not been defined yet.
	ErrUndefinedType
	// ErrInvalidArgument indicates a well-formed call with an impossible
	// argument: a variant ordinal out of range, a scalar of the wrong width.
	ErrInvalidArgument
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownType:
		return "unknown type"
	case ErrRedefinition:
		return "redefinition"
	case ErrUndefinedType:
		return "undefined type"
	case ErrInvalidArgument:
		return "invalid argument"
	default:
		return fmt.Sprintf("error(%d)", k)
	}
}

// Error represents collaborator misuse of a store. Nothing is retried;
// these indicate bugs in the caller, not transient conditions.
type Error struct {
	Kind   ErrorKind
	Type   *types.Header // the type at fault, nil when not applicable
	Detail string
}

func (e *Error) Error() string {
	desc := "<nil>"
	if e.Type != nil {
		desc = e.Type.Description()
	}
	switch e.Kind {
	case ErrUnknownType:
		return fmt.Sprintf("%s is not interned in this store", desc)
	case ErrRedefinition:
		return fmt.Sprintf("%s is already defined", desc)
	case ErrUndefinedType:
		return fmt.Sprintf("%s has no defined layout yet", desc)
	case ErrInvalidArgument:
		if e.Detail != "" {
			return fmt.Sprintf("invalid argument (%s): %s", desc, e.Detail)
		}
		return fmt.Sprintf("invalid argument (%s)", desc)
	default:
		return fmt.Sprintf("store error kind=%d (%s)", e.Kind, desc)
	}
}
