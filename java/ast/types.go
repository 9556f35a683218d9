package ast

import "strings"

type PrimitiveKind int

const (
	Boolean PrimitiveKind = iota
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
)

var primitiveNames = [...]string{"boolean", "byte", "char", "short", "int", "long", "float", "double", "void"}

func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "unknown"
}

type PrimitiveType struct {
	Base
	Prim PrimitiveKind
}

// ClassType is a possibly qualified and parameterized class type. The
// qualifier may name a package or an enclosing type; resolution decides.
type ClassType struct {
	Base
	Annotations []*Annotation
	Qualifier   *ClassType
	Name        *Ident
	Args        []TypeNode
	Diamond     bool
}

// Names returns the dotted segments of the type name.
func (t *ClassType) Names() []string {
	var names []string
	for c := t; c != nil; c = c.Qualifier {
		names = append(names, c.Name.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

type ArrayType struct {
	Base
	Elem TypeNode
}

type WildcardType struct {
	Base
	Bound TypeNode // nil for ?
	Super bool
}

type UnionType struct {
	Base
	Alternatives []TypeNode
}

type IntersectionType struct {
	Base
	Types []TypeNode
}

// VarType is the inferred local variable type.
type VarType struct {
	Base
}

func (*PrimitiveType) typeNode()    {}
func (*ClassType) typeNode()        {}
func (*ArrayType) typeNode()        {}
func (*WildcardType) typeNode()     {}
func (*UnionType) typeNode()        {}
func (*IntersectionType) typeNode() {}
func (*VarType) typeNode()          {}

// TypeString renders a type node as written, without annotations.
func TypeString(t TypeNode) string {
	var sb strings.Builder
	writeType(&sb, t)
	return sb.String()
}

func writeType(sb *strings.Builder, t TypeNode) {
	switch t := t.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *PrimitiveType:
		sb.WriteString(t.Prim.String())
	case *ClassType:
		if t.Qualifier != nil {
			writeType(sb, t.Qualifier)
			sb.WriteByte('.')
		}
		sb.WriteString(t.Name.Name)
		if t.Diamond {
			sb.WriteString("<>")
		} else if len(t.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range t.Args {
				if i > 0 {
					sb.WriteByte(',')
				}
				writeType(sb, a)
			}
			sb.WriteByte('>')
		}
	case *ArrayType:
		writeType(sb, t.Elem)
		sb.WriteString("[]")
	case *WildcardType:
		sb.WriteByte('?')
		if t.Bound != nil {
			if t.Super {
				sb.WriteString(" super ")
			} else {
				sb.WriteString(" extends ")
			}
			writeType(sb, t.Bound)
		}
	case *UnionType:
		for i, a := range t.Alternatives {
			if i > 0 {
				sb.WriteString(" | ")
			}
			writeType(sb, a)
		}
	case *IntersectionType:
		for i, a := range t.Types {
			if i > 0 {
				sb.WriteString(" & ")
			}
			writeType(sb, a)
		}
	case *VarType:
		sb.WriteString("var")
	}
}

// ArrayDims wraps t in n array dimensions.
func ArrayDims(t TypeNode, n int) TypeNode {
	for i := 0; i < n; i++ {
		t = &ArrayType{Base: Base{Range: t.Span()}, Elem: t}
	}
	return t
}
