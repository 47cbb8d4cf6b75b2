package manifest

import (
	"fmt"
	"strings"
)

// Expr is a parsed type expression: a name with optional angle-bracketed
// arguments, e.g. "Int64" or "List<Int64>".
type Expr struct {
	Name string
	Args []*Expr
}

// String renders the expression back to its source form.
func (e *Expr) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Name + "<" + strings.Join(parts, ", ") + ">"
}

// ParseExpr parses a type expression. Names are dotted identifiers;
// arguments are comma-separated expressions in angle brackets.
func ParseExpr(src string) (*Expr, error) {
	p := &exprParser{src: src}
	e, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("type expression %q: trailing input at offset %d", src, p.pos)
	}
	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) parse() (*Expr, error) {
	p.skipSpace()
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("type expression %q: expected a type name at offset %d", p.src, p.pos)
	}
	e := &Expr{Name: name}
	p.skipSpace()
	if !p.eat('<') {
		return e, nil
	}
	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, arg)
		p.skipSpace()
		if p.eat(',') {
			continue
		}
		if p.eat('>') {
			return e, nil
		}
		return nil, fmt.Errorf("type expression %q: expected ',' or '>' at offset %d", p.src, p.pos)
	}
}

func (p *exprParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) eat(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}
