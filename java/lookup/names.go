package lookup

import (
	"strings"

	"github.com/dhamidi/jfront/java/constant"
)

// TypeName renders a type the way problem messages show it: simple names
// for declared types, type arguments without spaces.
func (e *Environment) TypeName(t TypeID) string {
	var sb strings.Builder
	e.writeTypeName(&sb, t, false)
	return sb.String()
}

// QualifiedTypeName renders a type with package-qualified names.
func (e *Environment) QualifiedTypeName(t TypeID) string {
	var sb strings.Builder
	e.writeTypeName(&sb, t, true)
	return sb.String()
}

func (e *Environment) writeTypeName(sb *strings.Builder, t TypeID, qualified bool) {
	tb := e.Type(t)
	if tb == nil {
		sb.WriteString("<error>")
		return
	}
	switch tb.Kind {
	case KindBase, KindNull, KindTypeVariable, KindCaptured:
		sb.WriteString(tb.Name)
	case KindSource, KindBinary, KindMissing:
		switch {
		case tb.Anonymous:
			sb.WriteString("new ")
			sup := tb.Superclass
			if len(tb.Interfaces) > 0 {
				sup = tb.Interfaces[0]
			}
			e.writeTypeName(sb, sup, qualified)
			sb.WriteString("(){}")
		case qualified || tb.Local:
			sb.WriteString(tb.Qualified)
		default:
			sb.WriteString(e.sourceName(tb))
		}
		if len(tb.TypeVars) > 0 {
			sb.WriteByte('<')
			for i, v := range tb.TypeVars {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(e.types[v].Name)
			}
			sb.WriteByte('>')
		}
	case KindRaw:
		g := e.Type(tb.Generic)
		if qualified {
			sb.WriteString(g.Qualified)
		} else {
			sb.WriteString(e.sourceName(g))
		}
	case KindParameterized:
		g := e.Type(tb.Generic)
		if tb.Outer != NoType {
			e.writeTypeName(sb, tb.Outer, qualified)
			sb.WriteByte('.')
			sb.WriteString(g.Name)
		} else if qualified {
			sb.WriteString(g.Qualified)
		} else {
			sb.WriteString(e.sourceName(g))
		}
		if len(tb.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range tb.Args {
				if i > 0 {
					sb.WriteByte(',')
				}
				e.writeTypeName(sb, a, qualified)
			}
			sb.WriteByte('>')
		}
	case KindArray:
		e.writeTypeName(sb, tb.Elem, qualified)
		sb.WriteString(strings.Repeat("[]", tb.Dims))
	case KindWildcard:
		sb.WriteByte('?')
		switch tb.BoundKind {
		case ExtendsBound:
			sb.WriteString(" extends ")
			e.writeTypeName(sb, tb.Bound, qualified)
		case SuperBound:
			sb.WriteString(" super ")
			e.writeTypeName(sb, tb.Bound, qualified)
		}
	case KindIntersection:
		for i, b := range tb.Bounds {
			if i > 0 {
				sb.WriteString(" & ")
			}
			e.writeTypeName(sb, b, qualified)
		}
	case KindUnresolved:
		sb.WriteString(strings.Join(tb.CompoundName, "."))
	}
}

// sourceName is the name of a declared type relative to its package:
// Outer.Inner for member types.
func (e *Environment) sourceName(tb *TypeBinding) string {
	if tb.Package == "" {
		return tb.Qualified
	}
	return strings.TrimPrefix(tb.Qualified, tb.Package+".")
}

// MethodName renders a method as name(ParamTypes) for messages.
func (e *Environment) MethodName(m MethodID) string {
	mb := e.Method(m)
	if mb == nil {
		return "<error>"
	}
	name := mb.Name
	if mb.Constructor {
		name = e.Type(mb.Declaring).Name
	}
	return name + "(" + e.typeNames(mb.Params) + ")"
}

// Descriptor returns the field descriptor of the erasure of t.
func (e *Environment) Descriptor(t TypeID) string {
	var sb strings.Builder
	e.writeDescriptor(&sb, t)
	return sb.String()
}

var primDescriptors = map[constant.TypeID]byte{
	constant.TBoolean: 'Z',
	constant.TByte:    'B',
	constant.TChar:    'C',
	constant.TShort:   'S',
	constant.TInt:     'I',
	constant.TLong:    'J',
	constant.TFloat:   'F',
	constant.TDouble:  'D',
	constant.TVoid:    'V',
}

func (e *Environment) writeDescriptor(sb *strings.Builder, t TypeID) {
	t = e.Erasure(t)
	tb := e.Type(t)
	switch {
	case tb == nil:
		sb.WriteString("Ljava/lang/Object;")
	case tb.Kind == KindBase:
		sb.WriteByte(primDescriptors[tb.Prim])
	case tb.Kind == KindArray:
		sb.WriteString(strings.Repeat("[", tb.Dims))
		e.writeDescriptor(sb, tb.Elem)
	case tb.Kind == KindNull:
		sb.WriteString("Ljava/lang/Object;")
	default:
		sb.WriteByte('L')
		sb.WriteString(tb.BinaryName)
		sb.WriteByte(';')
	}
}

// MethodDescriptor returns the descriptor of the erasure of m.
func (e *Environment) MethodDescriptor(m MethodID) string {
	mb := e.Method(m)
	orig := e.Method(mb.Original)
	if orig != nil {
		mb = orig
	}
	return e.methodDescriptor(mb.Params, mb.Return)
}

func (e *Environment) methodDescriptor(params []TypeID, ret TypeID) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		e.writeDescriptor(&sb, p)
	}
	sb.WriteByte(')')
	e.writeDescriptor(&sb, ret)
	return sb.String()
}

// BinaryName returns the internal name of the erasure of a reference type
// as used in constant pool class entries: arrays use their descriptor.
func (e *Environment) BinaryName(t TypeID) string {
	t = e.Erasure(t)
	tb := e.Type(t)
	if tb == nil {
		return "java/lang/Object"
	}
	if tb.Kind == KindArray {
		return e.Descriptor(t)
	}
	return tb.BinaryName
}

// isGenericType reports whether a type mentions type variables or type
// arguments, so that a Signature attribute is needed.
func (e *Environment) isGenericType(t TypeID) bool {
	tb := e.Type(t)
	if tb == nil {
		return false
	}
	switch tb.Kind {
	case KindTypeVariable, KindParameterized, KindWildcard, KindCaptured:
		return true
	case KindArray:
		return e.isGenericType(tb.Elem)
	}
	return false
}

func (e *Environment) writeSignature(sb *strings.Builder, t TypeID) {
	tb := e.Type(t)
	if tb == nil {
		sb.WriteString("Ljava/lang/Object;")
		return
	}
	switch tb.Kind {
	case KindTypeVariable:
		sb.WriteByte('T')
		sb.WriteString(tb.Name)
		sb.WriteByte(';')
	case KindCaptured, KindIntersection:
		e.writeSignature(sb, e.Erasure(t))
	case KindArray:
		sb.WriteString(strings.Repeat("[", tb.Dims))
		e.writeSignature(sb, tb.Elem)
	case KindWildcard:
		switch tb.BoundKind {
		case Unbounded:
			sb.WriteByte('*')
		case ExtendsBound:
			sb.WriteByte('+')
			e.writeSignature(sb, tb.Bound)
		case SuperBound:
			sb.WriteByte('-')
			e.writeSignature(sb, tb.Bound)
		}
	case KindParameterized:
		g := e.Type(tb.Generic)
		if tb.Outer != NoType && e.Kind(tb.Outer) == KindParameterized {
			var outer strings.Builder
			e.writeSignature(&outer, tb.Outer)
			sb.WriteString(strings.TrimSuffix(outer.String(), ";"))
			sb.WriteByte('.')
			sb.WriteString(g.Name)
		} else {
			sb.WriteByte('L')
			sb.WriteString(g.BinaryName)
		}
		if len(tb.Args) > 0 {
			sb.WriteByte('<')
			for _, a := range tb.Args {
				e.writeSignature(sb, a)
			}
			sb.WriteByte('>')
		}
		sb.WriteByte(';')
	default:
		e.writeDescriptor(sb, t)
	}
}

func (e *Environment) writeTypeParams(sb *strings.Builder, vars []TypeID) {
	if len(vars) == 0 {
		return
	}
	sb.WriteByte('<')
	for _, v := range vars {
		vb := e.Type(v)
		sb.WriteString(vb.Name)
		if len(vb.Bounds) == 0 {
			sb.WriteString(":Ljava/lang/Object;")
			continue
		}
		for i, b := range vb.Bounds {
			if i == 0 && (e.isInterfaceType(b) && e.Kind(b) != KindTypeVariable) {
				sb.WriteByte(':')
			}
			sb.WriteByte(':')
			e.writeSignature(sb, b)
		}
	}
	sb.WriteByte('>')
}

// ClassSignature returns the Signature attribute value for a declared
// type, or "" when the type is not generic and has no parameterized
// supertypes.
func (e *Environment) ClassSignature(t TypeID) string {
	tb := e.Type(t)
	e.ensureSupertypes(t)
	needed := len(tb.TypeVars) > 0 || e.isGenericType(tb.Superclass)
	for _, i := range tb.Interfaces {
		needed = needed || e.isGenericType(i)
	}
	if !needed {
		return ""
	}
	var sb strings.Builder
	e.writeTypeParams(&sb, tb.TypeVars)
	if tb.Superclass != NoType {
		e.writeSignature(&sb, tb.Superclass)
	} else {
		sb.WriteString("Ljava/lang/Object;")
	}
	for _, i := range tb.Interfaces {
		e.writeSignature(&sb, i)
	}
	return sb.String()
}

// MethodSignature returns the Signature attribute value for a method, or
// "" when its erased descriptor says everything.
func (e *Environment) MethodSignature(m MethodID) string {
	mb := e.Method(m)
	needed := len(mb.TypeVars) > 0 || e.isGenericType(mb.Return)
	throwsGeneric := false
	for _, p := range mb.Params {
		needed = needed || e.isGenericType(p)
	}
	for _, x := range mb.Throws {
		throwsGeneric = throwsGeneric || e.Kind(x) == KindTypeVariable
	}
	if !needed && !throwsGeneric {
		return ""
	}
	var sb strings.Builder
	e.writeTypeParams(&sb, mb.TypeVars)
	sb.WriteByte('(')
	for _, p := range mb.Params {
		e.writeSignature(&sb, p)
	}
	sb.WriteByte(')')
	e.writeSignature(&sb, mb.Return)
	if throwsGeneric {
		for _, x := range mb.Throws {
			sb.WriteByte('^')
			e.writeSignature(&sb, x)
		}
	}
	return sb.String()
}

// FieldSignature returns the Signature attribute value of a field type,
// or "".
func (e *Environment) FieldSignature(t TypeID) string {
	if !e.isGenericType(t) {
		return ""
	}
	var sb strings.Builder
	e.writeSignature(&sb, t)
	return sb.String()
}
