package classfile

import (
	"fmt"
	"strings"
)

// TypeSig is a type in a generic signature: BaseTypeSig, *ClassTypeSig,
// *TypeVarSig or *ArrayTypeSig. Plain field descriptors parse as
// signatures too.
type TypeSig interface {
	typeSig()
}

// BaseTypeSig is a primitive descriptor character.
type BaseTypeSig byte

type ClassTypeSig struct {
	Name  string // internal name; nested segments are joined with $
	Args  []TypeArgSig
	Outer *ClassTypeSig // parameterized enclosing type, if written
}

type TypeVarSig struct {
	Name string
}

type ArrayTypeSig struct {
	Elem TypeSig
}

// TypeArgSig is one type argument. Wildcard is 0 for an exact argument,
// '*' for an unbounded wildcard, '+' for extends and '-' for super.
type TypeArgSig struct {
	Wildcard byte
	Type     TypeSig
}

type TypeParamSig struct {
	Name            string
	ClassBound      TypeSig // nil when only interface bounds are given
	InterfaceBounds []TypeSig
}

type ClassSignature struct {
	TypeParams []TypeParamSig
	Super      *ClassTypeSig
	Interfaces []*ClassTypeSig
}

type MethodSignature struct {
	TypeParams []TypeParamSig
	Params     []TypeSig
	Return     TypeSig // nil for void
	Throws     []TypeSig
}

func (BaseTypeSig) typeSig()   {}
func (*ClassTypeSig) typeSig() {}
func (*TypeVarSig) typeSig()   {}
func (*ArrayTypeSig) typeSig() {}

type sigParser struct {
	s   string
	pos int
}

type sigError struct{ err error }

func (p *sigParser) fail(format string, args ...any) {
	panic(sigError{fmt.Errorf("signature %q at %d: %s", p.s, p.pos, fmt.Sprintf(format, args...))})
}

func parseSig[T any](s string, fn func(*sigParser) T) (result T, err error) {
	p := &sigParser{s: s}
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(sigError)
			if !ok {
				panic(r)
			}
			err = se.err
		}
	}()
	result = fn(p)
	if p.pos != len(s) {
		p.fail("trailing characters")
	}
	return result, nil
}

func ParseClassSignature(s string) (*ClassSignature, error) {
	return parseSig(s, func(p *sigParser) *ClassSignature {
		cs := &ClassSignature{TypeParams: p.typeParams()}
		cs.Super = p.classType()
		for p.pos < len(p.s) {
			cs.Interfaces = append(cs.Interfaces, p.classType())
		}
		return cs
	})
}

func ParseMethodSignature(s string) (*MethodSignature, error) {
	return parseSig(s, func(p *sigParser) *MethodSignature {
		ms := &MethodSignature{TypeParams: p.typeParams()}
		p.expect('(')
		for p.peek() != ')' {
			ms.Params = append(ms.Params, p.typeSig())
		}
		p.expect(')')
		if p.peek() == 'V' {
			p.pos++
		} else {
			ms.Return = p.typeSig()
		}
		for p.peek() == '^' {
			p.pos++
			ms.Throws = append(ms.Throws, p.typeSig())
		}
		return ms
	})
}

// ParseFieldSignature parses a field signature or a field descriptor.
func ParseFieldSignature(s string) (TypeSig, error) {
	return parseSig(s, func(p *sigParser) TypeSig { return p.typeSig() })
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) expect(c byte) {
	if p.peek() != c {
		p.fail("expected %q", c)
	}
	p.pos++
}

func (p *sigParser) identifier() string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(".;[/<>:", rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		p.fail("expected identifier")
	}
	return p.s[start:p.pos]
}

func (p *sigParser) typeParams() []TypeParamSig {
	if p.peek() != '<' {
		return nil
	}
	p.pos++
	var params []TypeParamSig
	for p.peek() != '>' {
		tp := TypeParamSig{Name: p.identifier()}
		p.expect(':')
		if c := p.peek(); c != ':' && c != '>' {
			tp.ClassBound = p.typeSig()
		}
		for p.peek() == ':' {
			p.pos++
			tp.InterfaceBounds = append(tp.InterfaceBounds, p.typeSig())
		}
		params = append(params, tp)
	}
	p.pos++
	return params
}

func (p *sigParser) typeSig() TypeSig {
	switch c := p.peek(); c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		p.pos++
		return BaseTypeSig(c)
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		name := p.identifier()
		p.expect(';')
		return &TypeVarSig{Name: name}
	case '[':
		p.pos++
		return &ArrayTypeSig{Elem: p.typeSig()}
	default:
		p.fail("unexpected %q", c)
		return nil
	}
}

func (p *sigParser) classType() *ClassTypeSig {
	p.expect('L')
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(".;<", rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		p.fail("expected class name")
	}
	ct := &ClassTypeSig{Name: p.s[start:p.pos]}
	ct.Args = p.typeArgs()
	for p.peek() == '.' {
		p.pos++
		inner := &ClassTypeSig{Name: ct.Name + "$" + p.identifier()}
		if len(ct.Args) > 0 || ct.Outer != nil {
			inner.Outer = ct
		}
		inner.Args = p.typeArgs()
		ct = inner
	}
	p.expect(';')
	return ct
}

func (p *sigParser) typeArgs() []TypeArgSig {
	if p.peek() != '<' {
		return nil
	}
	p.pos++
	var args []TypeArgSig
	for p.peek() != '>' {
		switch c := p.peek(); c {
		case '*':
			p.pos++
			args = append(args, TypeArgSig{Wildcard: '*'})
		case '+', '-':
			p.pos++
			args = append(args, TypeArgSig{Wildcard: c, Type: p.typeSig()})
		default:
			args = append(args, TypeArgSig{Type: p.typeSig()})
		}
	}
	p.pos++
	return args
}
