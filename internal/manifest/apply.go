package manifest

import (
	"fmt"

	"xst/internal/layout"
	"xst/internal/store"
	"xst/internal/types"
)

// Applied reports one manifest entry after definition.
type Applied struct {
	Type     *types.Header
	Metatype *layout.Metatype
}

// Apply declares and defines every manifest entry against the store. All
// entries are declared before any is defined, so fields may reference later
// entries and cycles close through out-of-line fields. Results follow
// document order.
func (m *Manifest) Apply(s *store.Store) ([]Applied, error) {
	headers := make([]*types.Header, len(m.Config.Types))
	for i, tc := range m.Config.Types {
		h, err := m.declareEntry(s, tc)
		if err != nil {
			return nil, fmt.Errorf("%s: types[%d] (%s): %w", m.Path, i, tc.Name, err)
		}
		headers[i] = h
	}

	out := make([]Applied, len(m.Config.Types))
	for i, tc := range m.Config.Types {
		fields := make([]layout.Field, len(tc.Fields))
		for j, fc := range tc.Fields {
			ft, err := m.resolveSource(s, fc.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: types[%d] (%s): fields[%d]: %w", m.Path, i, tc.Name, j, err)
			}
			fields[j] = layout.Field{Type: ft, OutOfLine: fc.OutOfLine}
		}

		var (
			mt  *layout.Metatype
			err error
		)
		switch tc.Role {
		case "struct":
			mt, err = s.DefineStruct(headers[i], fields)
		case "enum":
			mt, err = s.DefineEnum(headers[i], fields)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: types[%d] (%s): %w", m.Path, i, tc.Name, err)
		}
		out[i] = Applied{Type: headers[i], Metatype: mt}
	}
	return out, nil
}

func (m *Manifest) declareEntry(s *store.Store, tc TypeConfig) (*types.Header, error) {
	args := make([]*types.Header, len(tc.Args))
	for i, src := range tc.Args {
		a, err := m.resolveSource(s, src)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	switch tc.Role {
	case "enum":
		return s.Declare(types.Enum(tc.Name, args...)), nil
	default:
		return s.Declare(types.Struct(tc.Name, args...)), nil
	}
}

func (m *Manifest) resolveSource(s *store.Store, src string) (*types.Header, error) {
	e, err := ParseExpr(src)
	if err != nil {
		return nil, err
	}
	return m.resolve(s, e)
}

// resolve maps a type expression to its canonical header, declaring
// composites on the way. Composite roles come from the manifest entries;
// an expression naming a type with no entry is an error.
func (m *Manifest) resolve(s *store.Store, e *Expr) (*types.Header, error) {
	b := s.Builtins()
	switch e.Name {
	case "Bool", "Int32", "Int64", "String":
		if len(e.Args) != 0 {
			return nil, fmt.Errorf("builtin %s takes no type arguments", e.Name)
		}
		switch e.Name {
		case "Bool":
			return b.Bool, nil
		case "Int32":
			return b.I32, nil
		case "Int64":
			return b.I64, nil
		default:
			return b.Str, nil
		}
	}

	role, ok := m.roleOf(e.Name)
	if !ok {
		return nil, fmt.Errorf("type %q is not described by this manifest", e.Name)
	}
	args := make([]*types.Header, len(e.Args))
	for i, a := range e.Args {
		h, err := m.resolve(s, a)
		if err != nil {
			return nil, err
		}
		args[i] = h
	}
	if role == "enum" {
		return s.Declare(types.Enum(e.Name, args...)), nil
	}
	return s.Declare(types.Struct(e.Name, args...)), nil
}

func (m *Manifest) roleOf(name string) (string, bool) {
	for _, tc := range m.Config.Types {
		if tc.Name == name {
			return tc.Role, true
		}
	}
	return "", false
}
